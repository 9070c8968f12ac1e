// Package phantombuster provides a client for the PhantomBuster v2 API,
// used to locate scraping agents and the CSV files their runs produce.
package phantombuster

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/resilience"
)

const (
	defaultBaseURL = "https://api.phantombuster.com/api/v2"

	// DefaultMaxDepth is how many recent containers are searched for a result CSV.
	DefaultMaxDepth = 6
)

// ErrAgentNotFound is returned when no agent matches a keyword.
var ErrAgentNotFound = eris.New("phantombuster: agent not found")

// ErrNoResults is returned when none of the searched containers has a CSV.
var ErrNoResults = eris.New("phantombuster: no csv results found")

// Client defines the PhantomBuster operations.
type Client interface {
	// ListAgents returns every agent (phantom) on the account.
	ListAgents(ctx context.Context) ([]Agent, error)
	// FindAgent returns the first agent whose name contains keyword as a
	// whole word. An empty keyword returns the first agent.
	FindAgent(ctx context.Context, keyword string) (*Agent, error)
	// ResultCSVURLs returns the CSV URLs of the newest container that has
	// any, looking at most maxDepth containers back and ignoring containers
	// created at or before since.
	ResultCSVURLs(ctx context.Context, agentID string, since time.Time, maxDepth int) ([]string, error)
	// Launch starts an agent and returns the new container id.
	Launch(ctx context.Context, agentID string) (string, error)
}

// Agent is a PhantomBuster phantom.
type Agent struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ScriptID      string `json:"scriptId"`
	LastEndStatus string `json:"lastEndStatus"`
	UpdatedAt     int64  `json:"updatedAt"`
}

// Container is a single run of an agent. Timestamps are Unix milliseconds.
type Container struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"createdAt"`
	EndedAt   int64  `json:"endedAt"`
}

// Created returns the container's creation time.
func (c Container) Created() time.Time {
	return time.UnixMilli(c.CreatedAt)
}

// Option configures the PhantomBuster client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRetry overrides the retry policy.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	retry   resilience.RetryConfig
}

// NewClient creates a new PhantomBuster client.
func NewClient(apiKey string, opts ...Option) Client {
	retry := resilience.DefaultRetryConfig()
	retry.InitialBackoff = time.Second
	retry.OnRetry = resilience.RetryLogger("phantombuster", "request")

	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		retry:   retry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody []byte
	if payload != nil {
		var err error
		reqBody, err = json.Marshal(payload)
		if err != nil {
			return nil, eris.Wrap(err, "phantombuster: marshal request")
		}
	}

	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		var body io.Reader
		if reqBody != nil {
			body = bytes.NewReader(reqBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
		if err != nil {
			return nil, eris.Wrap(err, "phantombuster: create request")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Phantombuster-Key", c.apiKey)
		if reqBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "phantombuster: request failed")
		}
		defer resp.Body.Close() //nolint:errcheck

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "phantombuster: read response body")
		}
		if resp.StatusCode != http.StatusOK {
			return nil, resilience.HTTPError("phantombuster", resp.StatusCode, data)
		}
		return data, nil
	})
}

func (c *httpClient) ListAgents(ctx context.Context) ([]Agent, error) {
	body, err := c.do(ctx, http.MethodGet, "/agents/fetch-all", nil, nil)
	if err != nil {
		return nil, eris.Wrap(err, "phantombuster: list agents")
	}

	var agents []Agent
	if err := json.Unmarshal(body, &agents); err != nil {
		return nil, eris.Wrap(err, "phantombuster: unmarshal agents")
	}
	return agents, nil
}

func (c *httpClient) FindAgent(ctx context.Context, keyword string) (*Agent, error) {
	agents, err := c.ListAgents(ctx)
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, ErrAgentNotFound
	}
	if keyword == "" {
		return &agents[0], nil
	}

	keyword = strings.ToLower(keyword)
	for i := range agents {
		if slices.Contains(strings.Fields(strings.ToLower(agents[i].Name)), keyword) {
			return &agents[i], nil
		}
	}
	return nil, eris.Wrapf(ErrAgentNotFound, "keyword %q", keyword)
}

type containersResponse struct {
	Containers []Container `json:"containers"`
}

func (c *httpClient) containers(ctx context.Context, agentID string) ([]Container, error) {
	q := url.Values{}
	q.Set("agentId", agentID)
	body, err := c.do(ctx, http.MethodGet, "/containers/fetch-all", q, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "phantombuster: list containers for agent %s", agentID)
	}

	var resp containersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "phantombuster: unmarshal containers")
	}
	slices.SortStableFunc(resp.Containers, func(a, b Container) int {
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})
	return resp.Containers, nil
}

var csvURLPattern = regexp.MustCompile(`https?://[^"\s]+?\.csv`)

func (c *httpClient) resultCSVs(ctx context.Context, containerID string) ([]string, error) {
	q := url.Values{}
	q.Set("id", containerID)
	body, err := c.do(ctx, http.MethodGet, "/containers/fetch-result-object", q, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "phantombuster: fetch result object %s", containerID)
	}

	// The result object is a JSON document embedded as an escaped string.
	text := strings.ReplaceAll(string(body), `\/`, "/")
	text = strings.ReplaceAll(text, `\"`, `"`)

	var urls []string
	for _, u := range csvURLPattern.FindAllString(text, -1) {
		if !slices.Contains(urls, u) {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

func (c *httpClient) ResultCSVURLs(ctx context.Context, agentID string, since time.Time, maxDepth int) ([]string, error) {
	if agentID == "" {
		return nil, eris.New("phantombuster: agent id is required")
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	containers, err := c.containers(ctx, agentID)
	if err != nil {
		return nil, err
	}

	for i, ctr := range containers {
		if i >= maxDepth {
			break
		}
		if !since.IsZero() && !ctr.Created().After(since) {
			break
		}
		urls, err := c.resultCSVs(ctx, ctr.ID)
		if err != nil {
			return nil, err
		}
		if len(urls) > 0 {
			return urls, nil
		}
	}
	return nil, eris.Wrapf(ErrNoResults, "agent %s, %d most recent containers", agentID, maxDepth)
}

type launchResponse struct {
	ContainerID string `json:"containerId"`
}

func (c *httpClient) Launch(ctx context.Context, agentID string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/agents/launch", nil, map[string]string{"id": agentID})
	if err != nil {
		return "", eris.Wrapf(err, "phantombuster: launch agent %s", agentID)
	}

	var resp launchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", eris.Wrap(err, "phantombuster: unmarshal launch")
	}
	return resp.ContainerID, nil
}

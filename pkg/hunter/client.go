// Package hunter provides a client for the Hunter.io v2 API: domain search,
// email verification, and lead list management.
package hunter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/resilience"
)

const (
	defaultBaseURL = "https://api.hunter.io/v2"

	// DefaultRateLimit is the default request rate across all endpoints.
	DefaultRateLimit = 10

	// ListPageSize is the page size used when listing lead lists.
	ListPageSize = 100
)

// Client defines the Hunter operations used by the pipeline.
type Client interface {
	// DomainSearch returns every email Hunter knows for a domain.
	DomainSearch(ctx context.Context, domain, company string) (*DomainSearchResult, error)
	// VerifyEmail checks deliverability of a single address. Any non-200
	// response, including 202 while Hunter is still verifying, is an error.
	VerifyEmail(ctx context.Context, email string) (*Verification, error)
	// ListLeadLists returns every lead list on the account.
	ListLeadLists(ctx context.Context) ([]LeadList, error)
	// CreateLeadList creates a lead list and returns it.
	CreateLeadList(ctx context.Context, name string) (*LeadList, error)
	// DeleteLeadList removes a lead list by id.
	DeleteLeadList(ctx context.Context, id int) error
	// CreateLead adds a lead to a list.
	CreateLead(ctx context.Context, lead Lead) (*LeadRef, error)
	// UpsertLead creates a lead or updates the one with the same email.
	UpsertLead(ctx context.Context, lead Lead) (*LeadRef, error)
	// ListLeads returns every lead in a list, paging by ListPageSize.
	ListLeads(ctx context.Context, listID int) ([]ListedLead, error)
	// MoveLead moves a lead into another list.
	MoveLead(ctx context.Context, leadID, listID int) error
}

// Option configures the Hunter client.
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

// WithRateLimit sets the maximum requests per second. Zero or less disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *httpClient) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithRetry overrides the retry policy.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

// WithCircuitBreaker fails calls fast once the API keeps failing. One call,
// retries included, counts as a single breaker outcome.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(c *httpClient) {
		c.breaker = cb
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

// NewClient creates a new Hunter client.
func NewClient(apiKey string, opts ...Option) Client {
	retry := resilience.DefaultRetryConfig()
	retry.InitialBackoff = time.Second
	retry.OnRetry = resilience.RetryLogger("hunter", "request")

	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(DefaultRateLimit, 1),
		retry:   retry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope[T any] struct {
	Data T    `json:"data"`
	Meta meta `json:"meta"`
}

type meta struct {
	Total int `json:"total"`
}

// do sends one request (retrying transient failures) and returns the body of
// a response whose status is in okStatus.
func (c *httpClient) do(ctx context.Context, method, path string, query url.Values, payload any, okStatus ...int) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + query.Encode()

	var reqBody []byte
	if payload != nil {
		var err error
		reqBody, err = json.Marshal(payload)
		if err != nil {
			return nil, eris.Wrap(err, "hunter: marshal request")
		}
	}

	if c.breaker != nil {
		return resilience.ExecuteVal(ctx, c.breaker, func(ctx context.Context) ([]byte, error) {
			return c.send(ctx, method, reqURL, reqBody, okStatus)
		})
	}
	return c.send(ctx, method, reqURL, reqBody, okStatus)
}

// send performs the request with retries.
func (c *httpClient) send(ctx context.Context, method, reqURL string, reqBody []byte, okStatus []int) ([]byte, error) {
	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, eris.Wrap(err, "hunter: rate limit wait")
			}
		}

		var body io.Reader
		if reqBody != nil {
			body = bytes.NewReader(reqBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
		if err != nil {
			return nil, eris.Wrap(err, "hunter: create request")
		}
		req.Header.Set("Accept", "application/json")
		if reqBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "hunter: request failed")
		}
		defer resp.Body.Close() //nolint:errcheck

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "hunter: read response body")
		}

		for _, s := range okStatus {
			if resp.StatusCode == s {
				return data, nil
			}
		}
		return nil, resilience.HTTPError("hunter", resp.StatusCode, data)
	})
}

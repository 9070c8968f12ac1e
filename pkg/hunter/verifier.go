package hunter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
)

// Deliverability results reported by the verifier.
const (
	ResultDeliverable   = "deliverable"
	ResultRisky         = "risky"
	ResultUndeliverable = "undeliverable"
)

// Verification is the data section of an email-verifier response.
type Verification struct {
	Email  string `json:"email"`
	Status string `json:"status"`
	Result string `json:"result"`
	Score  int    `json:"score"`
}

// VerifyEmail runs the email verifier. A response without a status or
// result is an error, so callers never cache an empty verdict.
func (c *httpClient) VerifyEmail(ctx context.Context, email string) (*Verification, error) {
	q := url.Values{}
	q.Set("email", email)

	body, err := c.do(ctx, http.MethodGet, "/email-verifier", q, nil, http.StatusOK)
	if err != nil {
		return nil, eris.Wrapf(err, "hunter: verify %s", email)
	}

	var env envelope[Verification]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, eris.Wrap(err, "hunter: unmarshal verification")
	}
	if env.Data.Status == "" || env.Data.Result == "" {
		return nil, eris.Errorf("hunter: verify %s: response has no status or result", email)
	}
	return &env.Data, nil
}

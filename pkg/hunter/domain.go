package hunter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
)

// DomainSearchResult is the data section of a domain search response.
type DomainSearchResult struct {
	Domain       string  `json:"domain"`
	Organization string  `json:"organization"`
	Pattern      string  `json:"pattern"`
	Emails       []Email `json:"emails"`
}

// Email is one address found for a domain.
type Email struct {
	Value        string            `json:"value"`
	Type         string            `json:"type"`
	Confidence   *int              `json:"confidence"`
	Sources      []Source          `json:"sources"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	Position     string            `json:"position"`
	Department   string            `json:"department"`
	Twitter      string            `json:"twitter"`
	LinkedIn     string            `json:"linkedin"`
	PhoneNumber  string            `json:"phone_number"`
	Verification EmailVerification `json:"verification"`
}

// Source is a page where Hunter saw an address.
type Source struct {
	Domain      string `json:"domain"`
	URI         string `json:"uri"`
	ExtractedOn string `json:"extracted_on"`
	LastSeenOn  string `json:"last_seen_on"`
	StillOnPage bool   `json:"still_on_page"`
}

// EmailVerification is the cached verification attached to a search result.
// Date is "2006-01-02" or empty.
type EmailVerification struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

func (c *httpClient) DomainSearch(ctx context.Context, domain, company string) (*DomainSearchResult, error) {
	q := url.Values{}
	q.Set("domain", domain)
	if company != "" {
		q.Set("company", company)
	}

	body, err := c.do(ctx, http.MethodGet, "/domain-search", q, nil, http.StatusOK)
	if err != nil {
		return nil, eris.Wrapf(err, "hunter: domain search %s", domain)
	}

	var env envelope[DomainSearchResult]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, eris.Wrap(err, "hunter: unmarshal domain search")
	}
	return &env.Data, nil
}

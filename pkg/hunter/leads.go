package hunter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
)

// LeadList is a named Hunter lead list.
type LeadList struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	LeadsCount int    `json:"leads_count"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// Lead is the payload for creating a lead. Empty strings are omitted.
type Lead struct {
	Email            string            `json:"email"`
	FirstName        string            `json:"first_name,omitempty"`
	LastName         string            `json:"last_name,omitempty"`
	Position         string            `json:"position,omitempty"`
	Company          string            `json:"company,omitempty"`
	CompanyIndustry  string            `json:"company_industry,omitempty"`
	Website          string            `json:"website,omitempty"`
	LinkedInURL      string            `json:"linkedin_url,omitempty"`
	PhoneNumber      string            `json:"phone_number,omitempty"`
	Twitter          string            `json:"twitter,omitempty"`
	ConfidenceScore  *int              `json:"confidence_score,omitempty"`
	LeadsListID      int               `json:"leads_list_id"`
	CustomAttributes map[string]string `json:"custom_attributes,omitempty"`
}

// LeadRef identifies a created lead.
type LeadRef struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

// ListedLead is a lead as returned inside a lead list.
type ListedLead struct {
	ID               int               `json:"id"`
	Email            string            `json:"email"`
	ShortName        string            `json:"short_name,omitempty"`
	CustomAttributes map[string]string `json:"custom_attributes,omitempty"`
}

// Slug is the owning admin's slug, read from the short_name attribute.
func (l ListedLead) Slug() string {
	if l.ShortName != "" {
		return l.ShortName
	}
	return l.CustomAttributes["short_name"]
}

type leadListsPage struct {
	LeadsLists []LeadList `json:"leads_lists"`
}

func (c *httpClient) ListLeadLists(ctx context.Context) ([]LeadList, error) {
	var all []LeadList
	for offset := 0; ; offset += ListPageSize {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(ListPageSize))
		q.Set("offset", strconv.Itoa(offset))

		body, err := c.do(ctx, http.MethodGet, "/leads_lists", q, nil, http.StatusOK)
		if err != nil {
			return nil, eris.Wrap(err, "hunter: list lead lists")
		}

		var env envelope[leadListsPage]
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, eris.Wrap(err, "hunter: unmarshal lead lists")
		}
		all = append(all, env.Data.LeadsLists...)

		if len(env.Data.LeadsLists) < ListPageSize || len(all) >= env.Meta.Total {
			return all, nil
		}
	}
}

func (c *httpClient) CreateLeadList(ctx context.Context, name string) (*LeadList, error) {
	payload := map[string]string{"name": name}
	body, err := c.do(ctx, http.MethodPost, "/leads_lists", nil, payload, http.StatusOK, http.StatusCreated)
	if err != nil {
		return nil, eris.Wrapf(err, "hunter: create lead list %q", name)
	}

	var env envelope[LeadList]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, eris.Wrap(err, "hunter: unmarshal lead list")
	}
	return &env.Data, nil
}

func (c *httpClient) DeleteLeadList(ctx context.Context, id int) error {
	path := fmt.Sprintf("/leads_lists/%d", id)
	if _, err := c.do(ctx, http.MethodDelete, path, nil, nil, http.StatusNoContent, http.StatusAccepted, http.StatusOK); err != nil {
		return eris.Wrapf(err, "hunter: delete lead list %d", id)
	}
	return nil
}

func (c *httpClient) CreateLead(ctx context.Context, lead Lead) (*LeadRef, error) {
	if lead.LeadsListID == 0 {
		return nil, eris.New("hunter: lead list id is required")
	}

	body, err := c.do(ctx, http.MethodPost, "/leads", nil, lead, http.StatusOK, http.StatusCreated)
	if err != nil {
		return nil, eris.Wrapf(err, "hunter: create lead %s", lead.Email)
	}

	var env envelope[LeadRef]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, eris.Wrap(err, "hunter: unmarshal lead")
	}
	return &env.Data, nil
}

// UpsertLead creates the lead or updates the existing lead with the same
// email.
func (c *httpClient) UpsertLead(ctx context.Context, lead Lead) (*LeadRef, error) {
	if lead.LeadsListID == 0 {
		return nil, eris.New("hunter: lead list id is required")
	}

	body, err := c.do(ctx, http.MethodPut, "/leads", nil, lead, http.StatusOK, http.StatusCreated, http.StatusNoContent)
	if err != nil {
		return nil, eris.Wrapf(err, "hunter: upsert lead %s", lead.Email)
	}
	if len(body) == 0 {
		return &LeadRef{Email: lead.Email}, nil
	}

	var env envelope[LeadRef]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, eris.Wrap(err, "hunter: unmarshal lead")
	}
	return &env.Data, nil
}

type leadListPage struct {
	LeadsCount int          `json:"leads_count"`
	Leads      []ListedLead `json:"leads"`
}

func (c *httpClient) ListLeads(ctx context.Context, listID int) ([]ListedLead, error) {
	path := fmt.Sprintf("/leads_lists/%d", listID)
	var all []ListedLead
	for offset := 0; ; offset += ListPageSize {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(ListPageSize))
		q.Set("offset", strconv.Itoa(offset))

		body, err := c.do(ctx, http.MethodGet, path, q, nil, http.StatusOK)
		if err != nil {
			return nil, eris.Wrapf(err, "hunter: list leads of %d", listID)
		}

		var env envelope[leadListPage]
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, eris.Wrap(err, "hunter: unmarshal leads")
		}
		all = append(all, env.Data.Leads...)

		if len(env.Data.Leads) < ListPageSize {
			return all, nil
		}
	}
}

func (c *httpClient) MoveLead(ctx context.Context, leadID, listID int) error {
	path := fmt.Sprintf("/leads/%d", leadID)
	payload := map[string]int{"leads_list_id": listID}
	if _, err := c.do(ctx, http.MethodPut, path, nil, payload, http.StatusOK, http.StatusNoContent); err != nil {
		return eris.Wrapf(err, "hunter: move lead %d to list %d", leadID, listID)
	}
	return nil
}

package backup

import (
	"time"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// AccountRecord is one row of accounts_<tag>.csv.
type AccountRecord struct {
	Name           string `csv:"name"`
	Domain         string `csv:"domain"`
	Address        string `csv:"address"`
	State          string `csv:"state"`
	City           string `csv:"city"`
	Category       string `csv:"category"`
	OwnerEmail     string `csv:"owner_email"`
	OwnerFirstName string `csv:"owner_first_name"`
}

// ContactRecord is one row of the lead snapshots. Confidence is empty when
// the service gave no score.
type ContactRecord struct {
	InputDomain        string        `csv:"input_domain"`
	Email              string        `csv:"email"`
	Domain             string        `csv:"domain"`
	Organization       string        `csv:"organization"`
	Confidence         *int          `csv:"confidence,omitempty"`
	EmailType          string        `csv:"email_type"`
	NumSources         int           `csv:"num_sources"`
	Pattern            string        `csv:"pattern"`
	FirstName          string        `csv:"first_name"`
	LastName           string        `csv:"last_name"`
	Department         string        `csv:"department"`
	Position           string        `csv:"position"`
	Twitter            string        `csv:"twitter"`
	LinkedIn           string        `csv:"linkedin"`
	Phone              string        `csv:"phone"`
	VerificationStatus string        `csv:"verification_status"`
	VerificationDate   string        `csv:"verification_date"`
	AccountName        string        `csv:"account_name"`
	Address            string        `csv:"address"`
	City               string        `csv:"city"`
	State              string        `csv:"state"`
	Category           string        `csv:"category"`
	OwnerEmail         string        `csv:"owner_email"`
	OwnerFirstName     string        `csv:"owner_first_name"`
	Good               model.Verdict `csv:"good"`
	LeadTag            string        `csv:"lead_tag"`
}

func accountRecord(a *model.Account) AccountRecord {
	r := AccountRecord{
		Name:     a.Name,
		Domain:   a.Domain,
		Address:  a.Address,
		State:    a.State,
		City:     a.City,
		Category: a.Category,
	}
	if a.Owner != nil {
		r.OwnerEmail = a.Owner.Email
		r.OwnerFirstName = a.Owner.FirstName
	}
	return r
}

func contactRecord(c *model.ContactCandidate, tag string) ContactRecord {
	r := ContactRecord{
		InputDomain:        c.InputDomain,
		Email:              c.Email,
		Domain:             c.Domain,
		Organization:       c.Organization,
		Confidence:         c.Confidence,
		EmailType:          c.EmailType,
		NumSources:         c.NumSources,
		Pattern:            c.Pattern,
		FirstName:          c.FirstName,
		LastName:           c.LastName,
		Department:         c.Department,
		Position:           c.Position,
		Twitter:            c.Twitter,
		LinkedIn:           c.LinkedIn,
		Phone:              c.Phone,
		VerificationStatus: string(c.VerificationStatus),
		Good:               c.Good,
		LeadTag:            tag,
	}
	if !c.VerificationDate.IsZero() {
		r.VerificationDate = c.VerificationDate.Format(model.DateLayout)
	}
	if a := c.Account; a != nil {
		r.AccountName = a.Name
		r.Address = a.Address
		r.City = a.City
		r.State = a.State
		r.Category = a.Category
		if a.Owner != nil {
			r.OwnerEmail = a.Owner.Email
			r.OwnerFirstName = a.Owner.FirstName
		}
	}
	return r
}

func (r ContactRecord) candidate(acct *model.Account) (model.ContactCandidate, error) {
	c := model.ContactCandidate{
		InputDomain:        r.InputDomain,
		Email:              r.Email,
		Domain:             r.Domain,
		Organization:       r.Organization,
		Confidence:         r.Confidence,
		EmailType:          r.EmailType,
		NumSources:         r.NumSources,
		Pattern:            r.Pattern,
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		Department:         r.Department,
		Position:           r.Position,
		Twitter:            r.Twitter,
		LinkedIn:           r.LinkedIn,
		Phone:              r.Phone,
		VerificationStatus: model.ParseVerificationStatus(r.VerificationStatus),
		Account:            acct,
		Good:               r.Good,
	}
	if r.VerificationDate != "" {
		d, err := time.Parse(model.DateLayout, r.VerificationDate)
		if err != nil {
			return c, err
		}
		c.VerificationDate = d
	}
	return c, nil
}

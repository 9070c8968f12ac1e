package model

import "github.com/rotisserie/eris"

// Account is a candidate listing after owner assignment. Owner points into
// the admin roster and is shared across many accounts.
type Account struct {
	Name     string
	Domain   string
	Address  string
	City     string
	State    string
	Category string
	Owner    *Admin
}

// NewAccount builds an Account, failing when the owner or domain is missing.
func NewAccount(row CandidateRow, city, state string, owner *Admin) (Account, error) {
	if owner == nil {
		return Account{}, eris.Errorf("model: account %q has no owner", row.Domain)
	}
	if row.Domain == "" {
		return Account{}, eris.Errorf("model: account %q has no domain", row.Name)
	}
	return Account{
		Name:     row.Name,
		Domain:   row.Domain,
		Address:  row.Address,
		City:     city,
		State:    state,
		Category: row.Category,
		Owner:    owner,
	}, nil
}

package model

import "strings"

// Admin is a lead owner (sales rep) from the roster. City and State are
// empty when the rep has no home location.
type Admin struct {
	FirstName string `csv:"first_name" yaml:"first_name" json:"first_name"`
	LastName  string `csv:"last_name" yaml:"last_name" json:"last_name"`
	Slug      string `csv:"slug" yaml:"slug" json:"slug"`
	Email     string `csv:"email" yaml:"email" json:"email"`
	City      string `csv:"city" yaml:"city" json:"city,omitempty"`
	State     string `csv:"state" yaml:"state" json:"state,omitempty"`
	StoreCode string `csv:"store_code" yaml:"store_code" json:"store_code"`
}

// FullName returns "First Last" with empty parts dropped.
func (a Admin) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Location returns "City, ST" for display, or whichever part is known.
func (a Admin) Location() string {
	switch {
	case a.City != "" && a.State != "":
		return a.City + ", " + a.State
	case a.City != "":
		return a.City
	default:
		return a.State
	}
}

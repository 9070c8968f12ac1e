package dedup

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/fetcher"
)

// CustomerSet holds the email domains of existing customers.
type CustomerSet map[string]struct{}

// NewCustomerSet builds a set from customer email addresses. Each address
// contributes its lowercased domain and that domain's registrable form.
func NewCustomerSet(emails []string) CustomerSet {
	set := make(CustomerSet, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		at := strings.LastIndex(e, "@")
		if at < 0 || at == len(e)-1 {
			continue
		}
		domain := e[at+1:]
		set[domain] = struct{}{}
		if reg, err := NormalizeDomain(domain); err == nil {
			set[reg] = struct{}{}
		}
	}
	return set
}

// Contains reports whether domain belongs to an existing customer.
func (s CustomerSet) Contains(domain string) bool {
	if s == nil {
		return false
	}
	_, ok := s[strings.ToLower(domain)]
	return ok
}

// LoadCustomerDomains reads an existing-customer export (.csv or .xlsx)
// with an Email column.
func LoadCustomerDomains(ctx context.Context, path string) (CustomerSet, error) {
	tbl, err := fetcher.ReadTable(ctx, path)
	if err != nil {
		return nil, eris.Wrap(err, "dedup: read customers")
	}
	if !tbl.Has("email") {
		return nil, eris.Errorf("dedup: customer file %s has no Email column", path)
	}
	emails := make([]string, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		emails = append(emails, tbl.Get(row, "email"))
	}
	return NewCustomerSet(emails), nil
}

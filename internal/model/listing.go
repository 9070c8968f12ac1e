package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// RawListing is one scraped place listing as delivered by the scraper.
type RawListing struct {
	Title    string `csv:"title"`
	Category string `csv:"category"`
	Address  string `csv:"address"`
	Website  string `csv:"website"`
}

// ListingColumns are the scraper columns a listing file must carry.
var ListingColumns = []string{"title", "website"}

// ValidateListingHeader fails when a required listing column is missing.
// Matching is case-insensitive.
func ValidateListingHeader(header []string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = true
	}
	for _, col := range ListingColumns {
		if !have[col] {
			return eris.Errorf("model: listing header missing column %q", col)
		}
	}
	return nil
}

// CandidateRow is a listing after name cleaning, domain normalization and
// de-duplication.
type CandidateRow struct {
	Name     string `csv:"name"`
	Domain   string `csv:"domain"`
	Address  string `csv:"address"`
	Category string `csv:"category"`
}

// NewCandidateRow builds a CandidateRow, failing on an empty domain.
func NewCandidateRow(name, domain, address, category string) (CandidateRow, error) {
	if strings.TrimSpace(domain) == "" {
		return CandidateRow{}, eris.Errorf("model: candidate %q has no domain", name)
	}
	return CandidateRow{Name: name, Domain: domain, Address: address, Category: category}, nil
}

// Package dedup cleans scraped listings: tidies business names, reduces
// websites to registrable domains, drops duplicates and existing customers,
// and chunks the survivors for the enrichment service.
package dedup

import (
	"net"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// MaxChunkRows is the most rows the enrichment service accepts per upload.
const MaxChunkRows = 25000

// nameMarkers are applied in order; each truncates the name at its first
// occurrence.
var nameMarkers = []string{" (", " at", " - ", " @", ", LLC", " LLC", " | ", ": "}

// CleanName strips trailing qualifiers such as locations, suffixes and
// taglines from a business name.
func CleanName(name string) string {
	for _, m := range nameMarkers {
		if i := strings.Index(name, m); i >= 0 {
			name = name[:i]
		}
	}
	return name
}

// CleanNamePtr is CleanName for optional names; nil passes through.
func CleanNamePtr(name *string) *string {
	if name == nil {
		return nil
	}
	cleaned := CleanName(*name)
	return &cleaned
}

// NormalizeDomain reduces a URL or bare host to its registrable domain,
// e.g. "https://www.sub.example.co.uk/path" becomes "example.co.uk".
func NormalizeDomain(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return "", eris.New("dedup: empty url")
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", eris.Wrapf(err, "dedup: parse url %q", rawURL)
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return "", eris.Errorf("dedup: url %q has no host", rawURL)
	}
	if net.ParseIP(host) != nil {
		return "", eris.Errorf("dedup: url %q is an ip address", rawURL)
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", eris.Wrapf(err, "dedup: registrable domain of %q", rawURL)
	}
	return domain, nil
}

// Stats counts what each cleaning step removed.
type Stats struct {
	Input      int `json:"input"`
	NoWebsite  int `json:"no_website"`
	BadDomain  int `json:"bad_domain"`
	Duplicates int `json:"duplicates"`
	Customers  int `json:"customers"`
	Output     int `json:"output"`
	Chunks     int `json:"chunks"`
}

// Clean turns raw listings into candidate rows: rows without a website are
// dropped, names cleaned, websites normalized, duplicate domains removed
// keeping the first, and existing-customer domains removed. The survivors
// are split into chunks of at most MaxChunkRows.
func Clean(rows []model.RawListing, customers CustomerSet) ([][]model.CandidateRow, Stats) {
	stats := Stats{Input: len(rows)}
	seen := make(map[string]bool, len(rows))
	out := make([]model.CandidateRow, 0, len(rows))

	for _, r := range rows {
		if strings.TrimSpace(r.Website) == "" {
			stats.NoWebsite++
			continue
		}
		domain, err := NormalizeDomain(r.Website)
		if err != nil {
			stats.BadDomain++
			zap.L().Debug("dedup: dropping listing with bad website",
				zap.String("name", r.Title),
				zap.String("website", r.Website),
				zap.Error(err),
			)
			continue
		}
		if seen[domain] {
			stats.Duplicates++
			continue
		}
		seen[domain] = true
		if customers.Contains(domain) {
			stats.Customers++
			continue
		}
		cand, err := model.NewCandidateRow(CleanName(r.Title), domain, strings.TrimSpace(r.Address), strings.TrimSpace(r.Category))
		if err != nil {
			stats.BadDomain++
			continue
		}
		out = append(out, cand)
	}

	chunks := Chunk(out, MaxChunkRows)
	stats.Output = len(out)
	stats.Chunks = len(chunks)
	return chunks, stats
}

// Chunk splits rows into contiguous slices of at most size rows. It always
// returns at least one chunk.
func Chunk(rows []model.CandidateRow, size int) [][]model.CandidateRow {
	if size <= 0 || len(rows) <= size {
		return [][]model.CandidateRow{rows}
	}
	chunks := make([][]model.CandidateRow, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}

// Flatten joins chunks back into one ordered slice.
func Flatten(chunks [][]model.CandidateRow) []model.CandidateRow {
	var n int
	for _, c := range chunks {
		n += len(c)
	}
	out := make([]model.CandidateRow, 0, n)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

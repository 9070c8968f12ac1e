// Package enrich turns assigned accounts into contact candidates using the
// email-discovery service's domain search.
package enrich

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
)

// DefaultConcurrency is the number of domain searches in flight.
const DefaultConcurrency = 5

// DomainSearcher is the subset of the Hunter client used here.
type DomainSearcher interface {
	DomainSearch(ctx context.Context, domain, company string) (*hunter.DomainSearchResult, error)
}

// Stats counts enrichment results.
type Stats struct {
	Accounts   int `json:"accounts"`
	Candidates int `json:"candidates"`
	Failures   int `json:"failures"`
	Empty      int `json:"empty"`
}

// Enricher queries the searcher once per account.
type Enricher struct {
	searcher    DomainSearcher
	concurrency int
}

// New creates an Enricher. concurrency <= 0 uses DefaultConcurrency.
func New(searcher DomainSearcher, concurrency int) *Enricher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Enricher{searcher: searcher, concurrency: concurrency}
}

// Enrich returns one candidate per email found for the account's domain.
// A failed query yields no candidates and a degraded outcome; it never
// aborts the batch.
func (e *Enricher) Enrich(ctx context.Context, account *model.Account) model.Outcome[[]model.ContactCandidate] {
	res, err := e.searcher.DomainSearch(ctx, account.Domain, account.Name)
	if err != nil {
		zap.L().Warn("enrich: domain search failed",
			zap.String("domain", account.Domain),
			zap.Error(err),
		)
		return model.Degraded[[]model.ContactCandidate](nil, model.KindRemoteCallFailure, err)
	}

	org := res.Organization
	if strings.TrimSpace(org) == "" {
		org = account.Name
	}

	candidates := make([]model.ContactCandidate, 0, len(res.Emails))
	for _, em := range res.Emails {
		candidates = append(candidates, model.ContactCandidate{
			InputDomain:        account.Domain,
			Email:              em.Value,
			Domain:             res.Domain,
			Organization:       org,
			Confidence:         em.Confidence,
			EmailType:          em.Type,
			NumSources:         len(em.Sources),
			Pattern:            res.Pattern,
			FirstName:          em.FirstName,
			LastName:           em.LastName,
			Department:         em.Department,
			Position:           em.Position,
			Twitter:            em.Twitter,
			LinkedIn:           em.LinkedIn,
			Phone:              em.PhoneNumber,
			VerificationStatus: model.ParseVerificationStatus(em.Verification.Status),
			VerificationDate:   parseDate(em.Verification.Date),
			Account:            account,
		})
	}
	return model.OK(candidates)
}

// EnrichAll enriches every account with bounded concurrency. Candidates come
// back grouped in account input order regardless of completion order.
// Candidates point into accounts, so the slice must outlive them.
func (e *Enricher) EnrichAll(ctx context.Context, accounts []model.Account) ([]model.ContactCandidate, Stats) {
	perAccount := make([][]model.ContactCandidate, len(accounts))
	var failures atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i := range accounts {
		g.Go(func() error {
			out := e.Enrich(gctx, &accounts[i])
			if out.Failed() {
				failures.Add(1)
			}
			perAccount[i] = out.Value
			return nil
		})
	}
	_ = g.Wait()

	stats := Stats{Accounts: len(accounts), Failures: int(failures.Load())}
	var all []model.ContactCandidate
	for _, cs := range perAccount {
		if len(cs) == 0 {
			stats.Empty++
		}
		all = append(all, cs...)
	}
	stats.Candidates = len(all)
	stats.Empty -= stats.Failures

	zap.L().Info("enrich: complete",
		zap.Int("accounts", stats.Accounts),
		zap.Int("candidates", stats.Candidates),
		zap.Int("failures", stats.Failures),
		zap.Int("empty", stats.Empty),
	)
	return all, stats
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

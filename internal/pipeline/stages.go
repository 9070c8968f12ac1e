package pipeline

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/assign"
	"github.com/sells-group/leadgen-cli/internal/backup"
	"github.com/sells-group/leadgen-cli/internal/dedup"
	"github.com/sells-group/leadgen-cli/internal/fetcher"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/upload"
	"github.com/sells-group/leadgen-cli/internal/verify"
	"github.com/sells-group/leadgen-cli/pkg/phantombuster"
)

// state carries stage outputs through one run.
type state struct {
	opts   Options
	admins []model.Admin

	listings   []model.RawListing
	chunks     [][]model.CandidateRow
	assigned   int
	accounts   []model.Account
	candidates []model.ContactCandidate
	kept       []*model.ContactCandidate
	rejected   []*model.ContactCandidate
	uploaded   upload.Stats
	credits    float64
}

func (p *Pipeline) listings(ctx context.Context, st *state) (*model.PhaseResult, error) {
	var sources []string
	switch {
	case st.opts.Source != "":
		sources = []string{st.opts.Source}
	case st.opts.Phantom != "":
		urls, err := p.phantomResults(ctx, st.opts.Tag, st.opts.Phantom)
		if err != nil {
			return nil, err
		}
		sources = urls
	default:
		return nil, eris.New("pipeline: no listing source given")
	}

	for _, src := range sources {
		rows, err := p.readListings(ctx, src)
		if err != nil {
			return nil, err
		}
		st.listings = append(st.listings, rows...)
	}
	return &model.PhaseResult{
		Metadata: map[string]any{
			"sources": len(sources),
			"rows":    len(st.listings),
		},
	}, nil
}

// phantomResults returns the agent's result CSVs produced since the tag's
// last successful upload.
func (p *Pipeline) phantomResults(ctx context.Context, tag, keyword string) ([]string, error) {
	if p.phantom == nil {
		return nil, eris.New("pipeline: phantombuster is not configured")
	}
	agent, err := p.phantom.FindAgent(ctx, keyword)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: find phantom")
	}
	since, err := p.store.GetTimestamp(ctx, tag)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: read timestamp")
	}
	urls, err := p.phantom.ResultCSVURLs(ctx, agent.ID, since, p.cfg.PhantomBuster.MaxDepth)
	if errors.Is(err, phantombuster.ErrNoResults) {
		return nil, eris.Wrapf(err, "pipeline: no new results for %s since %s", agent.Name, since.Format(model.DateLayout))
	}
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: phantom results")
	}
	zap.L().Info("pipeline: found phantom results",
		zap.String("agent", agent.Name),
		zap.Int("files", len(urls)),
		zap.Time("since", since),
	)
	return urls, nil
}

func (p *Pipeline) readListings(ctx context.Context, src string) ([]model.RawListing, error) {
	r, err := fetcher.Open(ctx, p.fetcher, src)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: open listings %s", src)
	}
	defer r.Close() //nolint:errcheck

	rows, err := dedup.ReadListings(ctx, r)
	return rows, eris.Wrapf(err, "pipeline: read listings %s", src)
}

func (p *Pipeline) clean(ctx context.Context, st *state) (*model.PhaseResult, error) {
	customers := dedup.CustomerSet{}
	if st.opts.CustomersPath != "" {
		set, err := dedup.LoadCustomerDomains(ctx, st.opts.CustomersPath)
		if err != nil {
			return nil, err
		}
		customers = set
	}

	chunks, stats := dedup.Clean(st.listings, customers)
	rows := dedup.Flatten(chunks)
	chunks = dedup.Chunk(rows, p.chunkRows())
	st.chunks = chunks

	path, err := p.backups.WriteCandidates(st.opts.Tag, rows)
	if err != nil {
		return nil, err
	}

	return &model.PhaseResult{
		Metadata: map[string]any{
			"input":            stats.Input,
			"no_website":       stats.NoWebsite,
			"bad_domain":       stats.BadDomain,
			"duplicates":       stats.Duplicates,
			"customers":        stats.Customers,
			"output":           stats.Output,
			"chunks":           len(chunks),
			"customer_domains": len(customers),
			"snapshot":         path,
		},
	}, nil
}

func (p *Pipeline) assign(st *state) (*model.PhaseResult, error) {
	var (
		accounts []model.Account
		total    assign.Stats
	)
	for _, chunk := range st.chunks {
		accts, stats, err := p.engine.AssignAll(chunk, st.admins)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, accts...)
		total.City += stats.City
		total.State += stats.State
		total.Fallback += stats.Fallback
		total.ParseFailures += stats.ParseFailures
	}
	st.assigned = len(accounts)

	categories := assign.AcceptableCategories(accounts, st.opts.CutoffPct)
	st.accounts = assign.FilterByCategory(accounts, categories)

	path, err := p.backups.WriteAccounts(st.opts.Tag, st.accounts)
	if err != nil {
		return nil, err
	}
	return &model.PhaseResult{
		Metadata: map[string]any{
			"assigned":       st.assigned,
			"accepted":       len(st.accounts),
			"city":           total.City,
			"state":          total.State,
			"fallback":       total.Fallback,
			"parse_failures": total.ParseFailures,
			"categories":     categories,
			"snapshot":       path,
		},
	}, nil
}

func (p *Pipeline) enrich(ctx context.Context, st *state) (*model.PhaseResult, error) {
	candidates, stats := p.enricher.EnrichAll(ctx, st.accounts)
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: enrich cancelled")
	}
	st.candidates = candidates
	credits := p.costCalc.DomainSearches(stats.Accounts - stats.Failures - stats.Empty)
	st.credits += credits

	path, err := p.backups.WriteContacts(backup.Unfiltered, st.opts.Tag, pointers(candidates))
	if err != nil {
		return nil, err
	}
	return &model.PhaseResult{
		Metadata: map[string]any{
			"accounts":   stats.Accounts,
			"candidates": stats.Candidates,
			"failures":   stats.Failures,
			"empty":      stats.Empty,
			"credits":    credits,
			"snapshot":   path,
		},
	}, nil
}

func (p *Pipeline) verify(ctx context.Context, st *state) (*model.PhaseResult, error) {
	picked := verify.FilterGenerics(st.candidates)

	filter := verify.NewFilter(p.hunter,
		verify.WithCache(p.store),
		verify.WithClock(p.now),
		verify.WithConcurrency(p.cfg.Pipeline.Concurrency),
		verify.WithFreshnessDays(p.cfg.Pipeline.FreshnessDays),
	)
	res, err := filter.Run(ctx, picked)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, eris.Wrap(ctxErr, "pipeline: verify cancelled")
	}
	if err != nil {
		return nil, err
	}
	st.kept = res.Kept
	st.rejected = res.Rejected
	credits := p.costCalc.Verifications(res.Verified)
	st.credits += credits

	keptPath, err := p.backups.WriteContacts(backup.Leads, st.opts.Tag, res.Kept)
	if err != nil {
		return nil, err
	}
	if _, err := p.backups.WriteContacts(backup.Removed, st.opts.Tag, res.Rejected); err != nil {
		return nil, err
	}
	return &model.PhaseResult{
		Metadata: map[string]any{
			"candidates":      len(st.candidates),
			"one_per_domain":  len(picked),
			"kept":            len(res.Kept),
			"rejected":        len(res.Rejected),
			"verified":        res.Verified,
			"cached":          res.Cached,
			"skipped":         res.Skipped,
			"short_circuited": res.ShortCircuited,
			"credits":         credits,
			"snapshot":        keptPath,
		},
	}, nil
}

func (p *Pipeline) upload(ctx context.Context, st *state) (*model.PhaseResult, error) {
	lists, err := p.uploader.CreateLists(ctx, st.opts.Tag, st.admins)
	if err != nil {
		return nil, err
	}
	stats, err := p.uploader.Upload(ctx, st.opts.Tag, st.kept)
	if err != nil {
		return nil, err
	}
	st.uploaded = stats

	if err := p.store.SetTimestamp(ctx, st.opts.Tag, p.now().UTC()); err != nil {
		return nil, eris.Wrap(err, "pipeline: record upload timestamp")
	}
	return &model.PhaseResult{
		Metadata: map[string]any{
			"lists":    len(lists),
			"uploaded": stats.Uploaded,
			"failed":   stats.Failed,
			"skipped":  stats.Skipped,
		},
	}, nil
}

func pointers(cs []model.ContactCandidate) []*model.ContactCandidate {
	out := make([]*model.ContactCandidate, len(cs))
	for i := range cs {
		out[i] = &cs[i]
	}
	return out
}

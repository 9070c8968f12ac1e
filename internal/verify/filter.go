package verify

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
)

const (
	// FreshnessDays is how long a verification stays trustworthy.
	FreshnessDays = 182

	// RiskyMinScore is the lowest score at which a risky address is kept.
	RiskyMinScore = 80

	// DefaultConcurrency is the number of verifier calls in flight.
	DefaultConcurrency = 5
)

// ErrIntegrity is returned when kept and rejected do not partition the input.
var ErrIntegrity = eris.New("verify: kept + rejected does not equal input")

// Verifier is the subset of the Hunter client used here.
type Verifier interface {
	VerifyEmail(ctx context.Context, email string) (*hunter.Verification, error)
}

// Cache remembers verifier results across runs.
type Cache interface {
	// GetVerification returns nil, nil when nothing is cached for email.
	GetVerification(ctx context.Context, email string) (*model.Verification, error)
	SaveVerifications(ctx context.Context, vs []model.Verification) error
}

// Result is the outcome of a verification pass.
type Result struct {
	Kept     []*model.ContactCandidate
	Rejected []*model.ContactCandidate

	Verified       int // remote calls that returned a result
	Cached         int // results taken from the cache
	Skipped        int // remote calls that failed
	ShortCircuited int // stale invalid addresses rejected without a call
}

// Option configures a Filter.
type Option func(*Filter)

// WithCache enables the verification cache.
func WithCache(c Cache) Option {
	return func(f *Filter) { f.cache = c }
}

// WithClock overrides the current time.
func WithClock(now func() time.Time) Option {
	return func(f *Filter) { f.now = now }
}

// WithConcurrency bounds the number of verifier calls in flight.
func WithConcurrency(n int) Option {
	return func(f *Filter) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithFreshnessDays overrides FreshnessDays.
func WithFreshnessDays(days int) Option {
	return func(f *Filter) {
		if days > 0 {
			f.freshnessDays = days
		}
	}
}

// Filter re-verifies stale candidates and decides the final verdict.
type Filter struct {
	verifier      Verifier
	cache         Cache
	now           func() time.Time
	concurrency   int
	freshnessDays int
}

// NewFilter creates a Filter.
func NewFilter(v Verifier, opts ...Option) *Filter {
	f := &Filter{
		verifier:      v,
		now:           time.Now,
		concurrency:   DefaultConcurrency,
		freshnessDays: FreshnessDays,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run sets the verdict of every candidate and partitions them into kept and
// rejected, preserving input order. A failed verifier call leaves the
// candidate's earlier verdict in place; a cancelled context fails the whole
// run, since stale candidates would otherwise keep an unchecked verdict.
func (f *Filter) Run(ctx context.Context, candidates []*model.ContactCandidate) (Result, error) {
	today := truncateDay(f.now())
	threshold := today.AddDate(0, 0, -f.freshnessDays)

	var res Result
	var stale []*model.ContactCandidate
	for _, c := range candidates {
		switch {
		case needsVerification(c, threshold):
			if c.VerificationStatus == model.StatusInvalid {
				c.Good = model.VerdictRejected
				res.ShortCircuited++
				continue
			}
			stale = append(stale, c)
		case c.VerificationStatus == model.StatusValid && c.HasFirstName():
			c.Good = model.VerdictAccepted
		default:
			c.Good = model.VerdictRejected
		}
	}

	fresh, counts := f.reverify(ctx, stale, today, threshold)
	res.Verified, res.Cached, res.Skipped = counts.verified, counts.cached, counts.skipped

	// Results already paid for are cached even when the run was cancelled.
	if f.cache != nil && len(fresh) > 0 {
		if err := f.cache.SaveVerifications(context.WithoutCancel(ctx), fresh); err != nil {
			zap.L().Warn("verify: save verification cache", zap.Error(err))
		}
	}
	if err := ctx.Err(); err != nil {
		return Result{}, eris.Wrap(err, "verify: cancelled")
	}

	for _, c := range candidates {
		if c.Good == model.VerdictAccepted {
			res.Kept = append(res.Kept, c)
		} else {
			res.Rejected = append(res.Rejected, c)
		}
	}
	if len(res.Kept)+len(res.Rejected) != len(candidates) {
		return res, eris.Wrapf(ErrIntegrity, "kept %d + rejected %d != input %d",
			len(res.Kept), len(res.Rejected), len(candidates))
	}

	zap.L().Info("verify: complete",
		zap.Int("input", len(candidates)),
		zap.Int("kept", len(res.Kept)),
		zap.Int("rejected", len(res.Rejected)),
		zap.Int("verified", res.Verified),
		zap.Int("cached", res.Cached),
		zap.Int("skipped", res.Skipped),
		zap.Int("short_circuited", res.ShortCircuited),
	)
	return res, nil
}

type reverifyCounts struct {
	verified, cached, skipped int
}

// reverify looks up each stale candidate, in the cache first when one is
// configured, and returns the results fetched from the remote verifier.
func (f *Filter) reverify(ctx context.Context, stale []*model.ContactCandidate, today, threshold time.Time) ([]model.Verification, reverifyCounts) {
	fetched := make([]*model.Verification, len(stale))
	var verified, cached, skipped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, c := range stale {
		g.Go(func() error {
			if v := f.cached(gctx, c.Email, threshold); v != nil {
				apply(c, v)
				cached.Add(1)
				return nil
			}

			r, err := f.verifier.VerifyEmail(gctx, c.Email)
			if err == nil && (r == nil || r.Status == "" || r.Result == "") {
				err = eris.New("verify: verifier returned no status or result")
			}
			if err != nil {
				zap.L().Warn("verify: verifier call failed, keeping prior verdict",
					zap.String("email", c.Email),
					zap.Error(err),
				)
				skipped.Add(1)
				return nil
			}

			v := &model.Verification{
				Email:      c.Email,
				Status:     model.ParseVerificationStatus(r.Status),
				Result:     r.Result,
				Score:      r.Score,
				VerifiedAt: today,
			}
			apply(c, v)
			fetched[i] = v
			verified.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	var out []model.Verification
	for _, v := range fetched {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out, reverifyCounts{
		verified: int(verified.Load()),
		cached:   int(cached.Load()),
		skipped:  int(skipped.Load()),
	}
}

func (f *Filter) cached(ctx context.Context, email string, threshold time.Time) *model.Verification {
	if f.cache == nil {
		return nil
	}
	v, err := f.cache.GetVerification(ctx, email)
	if err != nil {
		zap.L().Debug("verify: cache lookup failed", zap.String("email", email), zap.Error(err))
		return nil
	}
	if v == nil || !truncateDay(v.VerifiedAt).After(threshold) {
		return nil
	}
	return v
}

// apply overwrites the candidate's verification fields and sets the verdict
// from the deliverability result. Unrecognized results leave Good untouched.
func apply(c *model.ContactCandidate, v *model.Verification) {
	score := v.Score
	c.VerificationStatus = v.Status
	c.Confidence = &score
	c.VerificationDate = truncateDay(v.VerifiedAt)

	switch v.Result {
	case hunter.ResultDeliverable:
		c.Good = model.VerdictAccepted
	case hunter.ResultRisky:
		c.Good = model.VerdictOf(score >= RiskyMinScore && c.HasFirstName())
	case hunter.ResultUndeliverable:
		c.Good = model.VerdictRejected
	}
}

func needsVerification(c *model.ContactCandidate, threshold time.Time) bool {
	return c.VerificationStatus == model.StatusAbsent ||
		c.VerificationDate.IsZero() ||
		!truncateDay(c.VerificationDate).After(threshold)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

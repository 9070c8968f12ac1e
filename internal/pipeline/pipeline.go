// Package pipeline runs the lead-generation stages for one campaign tag and
// records each stage in the store.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/admin"
	"github.com/sells-group/leadgen-cli/internal/assign"
	"github.com/sells-group/leadgen-cli/internal/backup"
	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/cost"
	"github.com/sells-group/leadgen-cli/internal/dedup"
	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/fetcher"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/internal/upload"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
	"github.com/sells-group/leadgen-cli/pkg/phantombuster"
)

// Stage names a snapshot a run can resume from.
type Stage string

const (
	StageListings Stage = "listings"
	StageAccounts Stage = "accounts"
	StageEnriched Stage = "enriched"
	StageFiltered Stage = "filtered"
)

// ParseStage validates a resume point. An empty string means a full run.
func ParseStage(s string) (Stage, error) {
	switch st := Stage(s); st {
	case "", StageListings, StageAccounts, StageEnriched, StageFiltered:
		return st, nil
	default:
		return "", eris.Errorf("pipeline: unknown stage %q", s)
	}
}

// Options selects the inputs and extent of one run.
type Options struct {
	Tag           string
	Source        string // listing CSV path or URL
	Phantom       string // PhantomBuster agent keyword, used when Source is empty
	CustomersPath string
	ExcludeStores []string // nil applies the configured store codes
	StartFrom     Stage
	Upload        bool
	CutoffPct     float64 // 0 applies the configured cutoff
}

// Result is what a run produced.
type Result struct {
	RunID    string
	Summary  model.RunResult
	Kept     []*model.ContactCandidate
	Rejected []*model.ContactCandidate
}

// Pipeline wires the stage packages together.
type Pipeline struct {
	cfg      *config.Config
	store    store.Store
	hunter   hunter.Client
	phantom  phantombuster.Client
	fetcher  fetcher.Fetcher
	admins   *admin.Directory
	backups  *backup.Store
	engine   *assign.Engine
	enricher *enrich.Enricher
	uploader *upload.Uploader
	costCalc *cost.Calculator
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the current time.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithEngine replaces the assignment engine.
func WithEngine(e *assign.Engine) Option {
	return func(p *Pipeline) { p.engine = e }
}

// New creates a new Pipeline with all dependencies. phantom may be nil when
// runs always name a listing source.
func New(
	cfg *config.Config,
	st store.Store,
	hunterClient hunter.Client,
	phantomClient phantombuster.Client,
	f fetcher.Fetcher,
	admins *admin.Directory,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		store:    st,
		hunter:   hunterClient,
		phantom:  phantomClient,
		fetcher:  f,
		admins:   admins,
		backups:  backup.New(cfg.Backup.Dir),
		engine:   assign.NewEngine(),
		enricher: enrich.New(hunterClient, cfg.Pipeline.Concurrency),
		uploader: upload.New(hunterClient),
		costCalc: cost.NewCalculator(hunterRates(cfg.Pricing.Hunter)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes every stage from opts.StartFrom on. Each stage writes its
// snapshot before the next begins, so a failed run can resume from the last
// snapshot written.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Tag == "" {
		return nil, eris.New("pipeline: tag is required")
	}
	if _, err := ParseStage(string(opts.StartFrom)); err != nil {
		return nil, err
	}
	if opts.ExcludeStores == nil {
		opts.ExcludeStores = p.cfg.Pipeline.ExcludeStoreCodes
	}
	if opts.CutoffPct <= 0 {
		opts.CutoffPct = p.cfg.Pipeline.CategoryCutoffPct
	}

	log := zap.L().With(zap.String("tag", opts.Tag))
	log.Info("pipeline: starting run", zap.String("from", string(opts.StartFrom)))

	// Run and phase records are written even after ctx is cancelled so an
	// interrupted run is recorded as failed.
	bookCtx := context.WithoutCancel(ctx)

	run, err := p.store.CreateRun(ctx, opts.Tag)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	result := &Result{RunID: run.ID}

	setStatus := func(status model.RunStatus) {
		if statusErr := p.store.UpdateRunStatus(bookCtx, run.ID, status); statusErr != nil {
			log.Warn("pipeline: failed to update status", zap.Error(statusErr))
		}
	}

	trackPhase := func(name string, fn func() (*model.PhaseResult, error)) error {
		phase, phaseErr := p.store.CreatePhase(bookCtx, run.ID, name)
		if phaseErr != nil {
			log.Warn("pipeline: failed to create phase", zap.String("phase", name), zap.Error(phaseErr))
		}

		start := time.Now()
		phaseResult, fnErr := fn()
		duration := time.Since(start).Milliseconds()

		if phaseResult == nil {
			phaseResult = &model.PhaseResult{}
		}
		phaseResult.Name = name
		phaseResult.Duration = duration

		if fnErr != nil {
			phaseResult.Status = model.PhaseStatusFailed
			phaseResult.Error = fnErr.Error()
			log.Error("pipeline: phase failed",
				zap.String("phase", name),
				zap.Int64("duration_ms", duration),
				zap.Error(fnErr),
			)
		} else {
			phaseResult.Status = model.PhaseStatusComplete
			log.Info("pipeline: phase complete",
				zap.String("phase", name),
				zap.Int64("duration_ms", duration),
				zap.Any("metadata", phaseResult.Metadata),
			)
		}

		if phase != nil {
			if err := p.store.CompletePhase(bookCtx, phase.ID, phaseResult); err != nil {
				log.Warn("pipeline: failed to complete phase", zap.String("phase", name), zap.Error(err))
			}
		}
		result.Summary.Phases = append(result.Summary.Phases, *phaseResult)
		return fnErr
	}

	fail := func(err error) (*Result, error) {
		result.Summary.Error = err.Error()
		result.Summary.CostUSD = p.costCalc.USD(result.Summary.Credits)
		if saveErr := p.store.UpdateRunResult(bookCtx, run.ID, &result.Summary); saveErr != nil {
			log.Warn("pipeline: failed to save run result", zap.Error(saveErr))
		}
		return result, err
	}

	st := &state{opts: opts, admins: p.admins.ListAdmins(opts.ExcludeStores)}

	if opts.StartFrom == "" {
		setStatus(model.RunStatusListing)
		if err := trackPhase("listings", func() (*model.PhaseResult, error) { return p.listings(ctx, st) }); err != nil {
			return fail(err)
		}
		result.Summary.Listings = len(st.listings)

		setStatus(model.RunStatusCleaning)
		if err := trackPhase("clean", func() (*model.PhaseResult, error) { return p.clean(ctx, st) }); err != nil {
			return fail(err)
		}
		result.Summary.Candidates = countRows(st.chunks)
	}

	if opts.StartFrom == "" || opts.StartFrom == StageListings {
		if opts.StartFrom == StageListings {
			rows, err := p.backups.ReadCandidates(opts.Tag)
			if err != nil {
				return fail(eris.Wrap(err, "pipeline: resume from listings"))
			}
			st.chunks = dedup.Chunk(rows, p.chunkRows())
			result.Summary.Candidates = len(rows)
		}

		setStatus(model.RunStatusAssigning)
		if err := trackPhase("assign", func() (*model.PhaseResult, error) { return p.assign(st) }); err != nil {
			return fail(err)
		}
		result.Summary.Accounts = st.assigned
	}

	if opts.StartFrom != StageEnriched && opts.StartFrom != StageFiltered {
		if opts.StartFrom == StageAccounts {
			accounts, err := p.backups.ReadAccounts(opts.Tag, p.admins)
			if err != nil {
				return fail(eris.Wrap(err, "pipeline: resume from accounts"))
			}
			st.accounts = accounts
		}
		result.Summary.AcceptedAccts = len(st.accounts)

		setStatus(model.RunStatusEnriching)
		if err := trackPhase("enrich", func() (*model.PhaseResult, error) { return p.enrich(ctx, st) }); err != nil {
			return fail(err)
		}
		result.Summary.Contacts = len(st.candidates)
		result.Summary.Credits = st.credits
	}

	if opts.StartFrom != StageFiltered {
		if opts.StartFrom == StageEnriched {
			candidates, err := p.backups.ReadContacts(backup.Unfiltered, opts.Tag, p.admins)
			if err != nil {
				return fail(eris.Wrap(err, "pipeline: resume from enriched"))
			}
			st.candidates = candidates
			result.Summary.Contacts = len(candidates)
		}

		setStatus(model.RunStatusVerifying)
		if err := trackPhase("verify", func() (*model.PhaseResult, error) { return p.verify(ctx, st) }); err != nil {
			return fail(err)
		}
		result.Summary.Credits = st.credits
	} else {
		kept, err := p.backups.ReadContacts(backup.Leads, opts.Tag, p.admins)
		if err != nil {
			return fail(eris.Wrap(err, "pipeline: resume from filtered"))
		}
		st.kept = pointers(kept)
	}
	result.Kept = st.kept
	result.Rejected = st.rejected
	result.Summary.Kept = len(st.kept)
	result.Summary.Rejected = len(st.rejected)

	if opts.Upload {
		setStatus(model.RunStatusUploading)
		if err := trackPhase("upload", func() (*model.PhaseResult, error) { return p.upload(ctx, st) }); err != nil {
			return fail(err)
		}
		result.Summary.Uploaded = st.uploaded.Uploaded
		result.Summary.UploadFailures = st.uploaded.Failed
	}

	result.Summary.CostUSD = p.costCalc.USD(result.Summary.Credits)
	if saveErr := p.store.UpdateRunResult(bookCtx, run.ID, &result.Summary); saveErr != nil {
		log.Warn("pipeline: failed to save run result", zap.Error(saveErr))
	}

	log.Info("pipeline: run complete",
		zap.String("run_id", run.ID),
		zap.Int("kept", result.Summary.Kept),
		zap.Int("rejected", result.Summary.Rejected),
		zap.Int("uploaded", result.Summary.Uploaded),
		zap.Float64("credits", result.Summary.Credits),
	)
	return result, nil
}

// hunterRates maps configured pricing onto calculator rates. An unset
// config falls back to cost.DefaultRates.
func hunterRates(hp config.HunterPricing) cost.Rates {
	if hp == (config.HunterPricing{}) {
		return cost.DefaultRates()
	}
	return cost.Rates{Hunter: cost.HunterRate{
		DomainSearch:    hp.DomainSearch,
		Verification:    hp.Verification,
		PlanMonthly:     hp.PlanMonthly,
		CreditsIncluded: hp.CreditsIncluded,
	}}
}

// chunkRows is the configured chunk size, capped at dedup.MaxChunkRows.
func (p *Pipeline) chunkRows() int {
	if n := p.cfg.Pipeline.ChunkRows; n > 0 && n < dedup.MaxChunkRows {
		return n
	}
	return dedup.MaxChunkRows
}

func countRows(chunks [][]model.CandidateRow) int {
	var n int
	for _, c := range chunks {
		n += len(c)
	}
	return n
}

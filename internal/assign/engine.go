// Package assign routes candidate listings to lead owners by geography and
// keeps only accounts in the batch's most common categories.
package assign

import (
	"math/rand/v2"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/address"
	"github.com/sells-group/leadgen-cli/internal/admin"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// ErrNoAdmins is returned when the roster to assign from is empty.
var ErrNoAdmins = eris.New("assign: no admins to assign leads to")

// Match records which rule chose an account's owner.
type Match string

const (
	MatchCity     Match = "city"
	MatchState    Match = "state"
	MatchFallback Match = "fallback"
)

// Stats counts how owners were chosen across a batch.
type Stats struct {
	City          int `json:"city"`
	State         int `json:"state"`
	Fallback      int `json:"fallback"`
	ParseFailures int `json:"parse_failures"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed makes owner picks deterministic.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithTagger replaces the address tagger.
func WithTagger(tag address.Tagger) Option {
	return func(e *Engine) {
		e.tag = tag
	}
}

// Engine assigns owners to candidate rows. Picks among equally eligible
// admins are uniformly random to spread leads across co-located reps.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
	tag address.Tagger
}

// NewEngine creates an Engine seeded from the runtime source unless
// WithSeed is given.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		tag: address.Tag,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assign picks an owner for row from admins: a random admin in the resolved
// city, else a random admin in the resolved state, else a random admin from
// the whole list. A tagger failure yields a degraded outcome whose account
// has no city or state.
func (e *Engine) Assign(row model.CandidateRow, admins []model.Admin) (model.Outcome[model.Account], Match, error) {
	if len(admins) == 0 {
		return model.Outcome[model.Account]{}, "", ErrNoAdmins
	}

	city, state, tagErr := address.Lookup(e.tag, row.Address)

	pool, match := eligible(admins, city, state)
	owner := e.pick(pool)

	acct, err := model.NewAccount(row, city, state, owner)
	if err != nil {
		return model.Outcome[model.Account]{}, "", err
	}
	if tagErr != nil {
		return model.Degraded(acct, model.KindParseFailure, tagErr), match, nil
	}
	return model.OK(acct), match, nil
}

// AssignAll assigns every row in order. Rows that fail validation are
// logged and skipped; parse failures still produce an account.
func (e *Engine) AssignAll(rows []model.CandidateRow, admins []model.Admin) ([]model.Account, Stats, error) {
	if len(admins) == 0 {
		return nil, Stats{}, ErrNoAdmins
	}

	// Accounts point into this copy so callers cannot mutate owners through the roster slice.
	roster := append([]model.Admin(nil), admins...)

	var stats Stats
	accounts := make([]model.Account, 0, len(rows))
	for _, row := range rows {
		out, match, err := e.Assign(row, roster)
		if err != nil {
			zap.L().Warn("assign: skipping row", zap.String("domain", row.Domain), zap.Error(err))
			continue
		}
		if out.Kind == model.KindParseFailure {
			stats.ParseFailures++
			zap.L().Debug("assign: address unparseable",
				zap.String("domain", row.Domain),
				zap.String("address", row.Address),
				zap.Error(out.Err),
			)
		}
		switch match {
		case MatchCity:
			stats.City++
		case MatchState:
			stats.State++
		default:
			stats.Fallback++
		}
		accounts = append(accounts, out.Value)
	}
	return accounts, stats, nil
}

// eligible returns pointers to the admins sharing the city, else the state,
// else the whole list.
func eligible(admins []model.Admin, city, state string) ([]*model.Admin, Match) {
	if city != "" {
		if pool := collect(admins, admin.FilterByCity(admins, city)); len(pool) > 0 {
			return pool, MatchCity
		}
	}
	if state != "" {
		if pool := collect(admins, admin.FilterByState(admins, state)); len(pool) > 0 {
			return pool, MatchState
		}
	}
	all := make([]*model.Admin, len(admins))
	for i := range admins {
		all[i] = &admins[i]
	}
	return all, MatchFallback
}

// collect maps filtered copies back to pointers into admins by email.
func collect(admins, matched []model.Admin) []*model.Admin {
	if len(matched) == 0 {
		return nil
	}
	want := make(map[string]bool, len(matched))
	for _, m := range matched {
		want[m.Email] = true
	}
	var out []*model.Admin
	for i := range admins {
		if want[admins[i].Email] {
			out = append(out, &admins[i])
		}
	}
	return out
}

func (e *Engine) pick(pool []*model.Admin) *model.Admin {
	e.mu.Lock()
	defer e.mu.Unlock()
	return pool[e.rng.IntN(len(pool))]
}

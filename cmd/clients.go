package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/admin"
	"github.com/sells-group/leadgen-cli/internal/fetcher"
	"github.com/sells-group/leadgen-cli/internal/resilience"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
	"github.com/sells-group/leadgen-cli/pkg/phantombuster"
)

// initStore opens the configured store and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL, &store.PoolConfig{
		MaxConns: cfg.Store.MaxConns,
		MinConns: cfg.Store.MinConns,
	})
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	return st, nil
}

func initHunter() hunter.Client {
	opts := []hunter.Option{
		hunter.WithBaseURL(cfg.Hunter.BaseURL),
		hunter.WithRateLimit(cfg.Hunter.RateLimit),
		hunter.WithRetry(resilience.RetryPolicy(cfg.Resilience, "hunter")),
		hunter.WithCircuitBreaker(resilience.NewCircuitBreaker(
			resilience.BreakerPolicy(cfg.Resilience, "hunter"),
		)),
	}
	if cfg.Hunter.TimeoutSecs > 0 {
		opts = append(opts, hunter.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Hunter.TimeoutSecs) * time.Second,
		}))
	}
	return hunter.NewClient(cfg.Hunter.Key, opts...)
}

// initPhantom returns nil when no PhantomBuster key is configured.
func initPhantom() phantombuster.Client {
	if cfg.PhantomBuster.Key == "" {
		return nil
	}
	return phantombuster.NewClient(cfg.PhantomBuster.Key,
		phantombuster.WithBaseURL(cfg.PhantomBuster.BaseURL),
		phantombuster.WithRetry(resilience.RetryPolicy(cfg.Resilience, "phantombuster")),
	)
}

func initFetcher() fetcher.Fetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		Timeout:     time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		RatePerHost: rate.Limit(cfg.Fetch.RateLimit),
		Retry:       resilience.RetryPolicy(cfg.Resilience, "fetcher"),
	})
}

func loadAdmins(ctx context.Context) (*admin.Directory, error) {
	dir, err := admin.Load(ctx, cfg.Admins.RosterPath)
	if err != nil {
		return nil, eris.Wrapf(err, "load admin roster %s", cfg.Admins.RosterPath)
	}
	zap.L().Debug("admin roster loaded", zap.Int("admins", dir.Len()))
	return dir, nil
}

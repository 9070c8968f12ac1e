package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sells-group/leadgen-cli/internal/config"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}
}

func TestDo_SuccessOnFirstAttempt(t *testing.T) {
	var calls int
	err := Do(context.Background(), DefaultRetryConfig(), func(_ context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_RetriesTransient(t *testing.T) {
	var calls int
	var retried []int
	cfg := fastRetry()
	cfg.OnRetry = func(attempt int, _ error) { retried = append(retried, attempt) }

	err := Do(context.Background(), cfg, func(_ context.Context) error {
		calls++
		if calls < 3 {
			return NewTransientError(errors.New("busy"), 503)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if len(retried) != 2 || retried[0] != 1 || retried[1] != 2 {
		t.Errorf("unexpected retry callbacks: %v", retried)
	}
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	var calls int
	err := Do(context.Background(), fastRetry(), func(_ context.Context) error {
		calls++
		return errors.New("bad request")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoVal_ExhaustsRetries(t *testing.T) {
	var calls int
	_, err := DoVal(context.Background(), fastRetry(), func(_ context.Context) (int, error) {
		calls++
		return 0, NewTransientError(errors.New("always"), 500)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoVal_ReturnsValue(t *testing.T) {
	v, err := DoVal(context.Background(), fastRetry(), func(_ context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil || v != "ok" {
		t.Fatalf("got %q, %v", v, err)
	}
}

func TestDo_ContextCancelledStopsRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	cfg := RetryConfig{MaxAttempts: 5, InitialBackoff: time.Hour}

	err := Do(ctx, cfg, func(_ context.Context) error {
		calls++
		cancel()
		return NewTransientError(errors.New("busy"), 503)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestComputeBackoff_Capped(t *testing.T) {
	cfg := applyDefaults(RetryConfig{InitialBackoff: time.Second, MaxBackoff: 3 * time.Second})
	if d := computeBackoff(10, cfg); d > 3*time.Second {
		t.Errorf("backoff %v exceeds cap", d)
	}
	cfg.JitterFraction = 0
	if d := computeBackoff(1, cfg); d != 2*time.Second {
		t.Errorf("expected 2s, got %v", d)
	}
}

func TestRetryPolicy(t *testing.T) {
	cfg := RetryPolicy(config.ResilienceConfig{MaxAttempts: 5, InitialBackoffMs: 100}, "hunter")
	if cfg.MaxAttempts != 5 || cfg.InitialBackoff != 100*time.Millisecond || cfg.MaxBackoff != 30*time.Second {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.OnRetry == nil {
		t.Error("expected retry logger")
	}

	capped := RetryPolicy(config.ResilienceConfig{InitialBackoffMs: 2000, MaxBackoffMs: 500}, "hunter")
	if capped.MaxBackoff != 2*time.Second {
		t.Errorf("max backoff = %v, want 2s", capped.MaxBackoff)
	}
}

func TestBreakerPolicy(t *testing.T) {
	cb := BreakerPolicy(config.ResilienceConfig{BreakerResetSecs: 10}, "hunter")
	if cb.FailureThreshold != 5 || cb.ResetTimeout != 10*time.Second {
		t.Errorf("unexpected circuit config: %+v", cb)
	}
	if cb.ShouldTrip(errors.New("bad request")) {
		t.Error("non-transient error should not trip")
	}
	if !cb.ShouldTrip(NewTransientError(errors.New("busy"), 503)) {
		t.Error("transient error should trip")
	}
	cb.OnStateChange(CircuitClosed, CircuitOpen)
}

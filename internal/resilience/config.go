package resilience

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
)

// RetryPolicy builds the retry policy for one remote service. Zero config
// values keep the defaults; retries are logged under the service name.
func RetryPolicy(c config.ResilienceConfig, service string) RetryConfig {
	cfg := DefaultRetryConfig()
	if c.MaxAttempts > 0 {
		cfg.MaxAttempts = c.MaxAttempts
	}
	if c.InitialBackoffMs > 0 {
		cfg.InitialBackoff = time.Duration(c.InitialBackoffMs) * time.Millisecond
	}
	if c.MaxBackoffMs > 0 {
		cfg.MaxBackoff = time.Duration(c.MaxBackoffMs) * time.Millisecond
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = cfg.InitialBackoff
	}
	cfg.OnRetry = RetryLogger(service, "request")
	return cfg
}

// BreakerPolicy builds the breaker config for one remote service. Only
// transient failures count toward opening it.
func BreakerPolicy(c config.ResilienceConfig, service string) CircuitBreakerConfig {
	cfg := DefaultCircuitBreakerConfig()
	if c.BreakerThreshold > 0 {
		cfg.FailureThreshold = c.BreakerThreshold
	}
	if c.BreakerResetSecs > 0 {
		cfg.ResetTimeout = time.Duration(c.BreakerResetSecs) * time.Second
	}
	cfg.ShouldTrip = IsTransient
	cfg.OnStateChange = func(from, to CircuitState) {
		zap.L().Warn("circuit breaker state change",
			zap.String("service", service),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
	}
	return cfg
}

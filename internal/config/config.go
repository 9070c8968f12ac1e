package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Hunter        HunterConfig        `yaml:"hunter" mapstructure:"hunter"`
	PhantomBuster PhantomBusterConfig `yaml:"phantombuster" mapstructure:"phantombuster"`
	Store         StoreConfig         `yaml:"store" mapstructure:"store"`
	Pipeline      PipelineConfig      `yaml:"pipeline" mapstructure:"pipeline"`
	Fetch         FetchConfig         `yaml:"fetch" mapstructure:"fetch"`
	Backup        BackupConfig        `yaml:"backup" mapstructure:"backup"`
	Admins        AdminsConfig        `yaml:"admins" mapstructure:"admins"`
	Customers     CustomersConfig     `yaml:"customers" mapstructure:"customers"`
	Resilience    ResilienceConfig    `yaml:"resilience" mapstructure:"resilience"`
	Pricing       PricingConfig       `yaml:"pricing" mapstructure:"pricing"`
	Monitoring    MonitoringConfig    `yaml:"monitoring" mapstructure:"monitoring"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
}

// HunterConfig holds Hunter API settings.
type HunterConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// PhantomBusterConfig holds PhantomBuster API settings.
type PhantomBusterConfig struct {
	Key      string `yaml:"key" mapstructure:"key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	MaxDepth int    `yaml:"max_depth" mapstructure:"max_depth"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// PipelineConfig configures the lead pipeline stages.
type PipelineConfig struct {
	Concurrency       int      `yaml:"concurrency" mapstructure:"concurrency"`
	CategoryCutoffPct float64  `yaml:"category_cutoff_pct" mapstructure:"category_cutoff_pct"`
	FreshnessDays     int      `yaml:"freshness_days" mapstructure:"freshness_days"`
	ExcludeStoreCodes []string `yaml:"exclude_store_codes" mapstructure:"exclude_store_codes"`
	ChunkRows         int      `yaml:"chunk_rows" mapstructure:"chunk_rows"`
}

// FetchConfig configures listing and roster downloads.
type FetchConfig struct {
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// BackupConfig configures where stage snapshots are written.
type BackupConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// AdminsConfig locates the admin roster (CSV, XLSX or YAML).
type AdminsConfig struct {
	RosterPath string `yaml:"roster_path" mapstructure:"roster_path"`
}

// CustomersConfig locates the existing-customer export.
type CustomersConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ResilienceConfig tunes retries and the circuit breaker on API clients.
type ResilienceConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	BreakerThreshold int `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerResetSecs int `yaml:"breaker_reset_secs" mapstructure:"breaker_reset_secs"`
}

// PricingConfig holds per-provider pricing rates.
type PricingConfig struct {
	Hunter HunterPricing `yaml:"hunter" mapstructure:"hunter"`
}

// HunterPricing holds Hunter credit costs and the plan they are billed on.
type HunterPricing struct {
	DomainSearch    float64 `yaml:"domain_search" mapstructure:"domain_search"`
	Verification    float64 `yaml:"verification" mapstructure:"verification"`
	PlanMonthly     float64 `yaml:"plan_monthly" mapstructure:"plan_monthly"`
	CreditsIncluded float64 `yaml:"credits_included" mapstructure:"credits_included"`
}

// MonitoringConfig configures run-health alerting.
type MonitoringConfig struct {
	WebhookURL           string  `yaml:"webhook_url" mapstructure:"webhook_url"`
	CostThresholdUSD     float64 `yaml:"cost_threshold_usd" mapstructure:"cost_threshold_usd"`
	FailureRateThreshold float64 `yaml:"failure_rate_threshold" mapstructure:"failure_rate_threshold"`
	RejectRateThreshold  float64 `yaml:"reject_rate_threshold" mapstructure:"reject_rate_threshold"`
	LookbackWindowHours  int     `yaml:"lookback_window_hours" mapstructure:"lookback_window_hours"`
	CheckIntervalSecs    int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Keys without a default are still registered so that
	// AutomaticEnv picks them up during Unmarshal.
	v.SetDefault("hunter.key", "")
	v.SetDefault("hunter.base_url", "https://api.hunter.io/v2")
	v.SetDefault("hunter.rate_limit", 10.0)
	v.SetDefault("hunter.timeout_secs", 30)
	v.SetDefault("phantombuster.key", "")
	v.SetDefault("phantombuster.base_url", "https://api.phantombuster.com/api/v2")
	v.SetDefault("phantombuster.max_depth", 6)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadgen.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("pipeline.concurrency", 5)
	v.SetDefault("pipeline.category_cutoff_pct", 0.05)
	v.SetDefault("pipeline.freshness_days", 182)
	v.SetDefault("pipeline.exclude_store_codes", []string{"RM", "XX"})
	v.SetDefault("pipeline.chunk_rows", 25000)
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.rate_limit", 2.0)
	v.SetDefault("backup.dir", "backups")
	v.SetDefault("admins.roster_path", "admins.csv")
	v.SetDefault("customers.path", "")
	v.SetDefault("resilience.max_attempts", 3)
	v.SetDefault("resilience.initial_backoff_ms", 1000)
	v.SetDefault("resilience.max_backoff_ms", 30000)
	v.SetDefault("resilience.breaker_threshold", 5)
	v.SetDefault("resilience.breaker_reset_secs", 60)
	v.SetDefault("pricing.hunter.domain_search", 1.0)
	v.SetDefault("pricing.hunter.verification", 0.5)
	v.SetDefault("pricing.hunter.plan_monthly", 49.0)
	v.SetDefault("pricing.hunter.credits_included", 2000.0)
	v.SetDefault("monitoring.webhook_url", "")
	v.SetDefault("monitoring.cost_threshold_usd", 0.0)
	v.SetDefault("monitoring.failure_rate_threshold", 0.25)
	v.SetDefault("monitoring.reject_rate_threshold", 0.9)
	v.SetDefault("monitoring.lookback_window_hours", 168)
	v.SetDefault("monitoring.check_interval_secs", 3600)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Modes: "run",
// "upload", "leadlists", "phantoms", "store".
func (c *Config) Validate(mode string) error {
	var errs []string
	require := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, msg)
		}
	}

	switch mode {
	case "run":
		require(c.Hunter.Key != "", "hunter.key is required")
		require(c.Admins.RosterPath != "", "admins.roster_path is required")
		require(c.Backup.Dir != "", "backup.dir is required")
		c.validateStore(require)
		c.validatePipeline(require)
	case "upload":
		require(c.Hunter.Key != "", "hunter.key is required")
		require(c.Admins.RosterPath != "", "admins.roster_path is required")
		require(c.Backup.Dir != "", "backup.dir is required")
		c.validateStore(require)
	case "leadlists":
		require(c.Hunter.Key != "", "hunter.key is required")
	case "phantoms":
		require(c.PhantomBuster.Key != "", "phantombuster.key is required")
	case "store":
		c.validateStore(require)
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: invalid for %s: %s", mode, strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateStore(require func(bool, string)) {
	switch c.Store.Driver {
	case "sqlite":
	case "postgres":
		require(c.Store.DatabaseURL != "", "store.database_url is required for postgres")
	default:
		require(false, "store.driver must be sqlite or postgres")
	}
}

func (c *Config) validatePipeline(require func(bool, string)) {
	require(c.Pipeline.Concurrency > 0 && c.Pipeline.Concurrency <= 50, "pipeline.concurrency must be between 1 and 50")
	require(c.Pipeline.CategoryCutoffPct > 0 && c.Pipeline.CategoryCutoffPct <= 1, "pipeline.category_cutoff_pct must be in (0, 1]")
	require(c.Pipeline.FreshnessDays > 0, "pipeline.freshness_days must be > 0")
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

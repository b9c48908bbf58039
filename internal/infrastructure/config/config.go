package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Account backends.
const (
	BackendPostgres = "postgres"
	BackendHTTP     = "http"
)

// Draft stores.
const (
	DraftStoreRedis  = "redis"
	DraftStoreMemory = "memory"
)

// Config holds all application configuration.
type Config struct {
	// Bank
	LocalCurrency string `env:"LOCAL_CURRENCY" envDefault:"BDT"`

	// Backends
	AccountBackend string `env:"ACCOUNT_BACKEND" envDefault:"postgres"`
	DraftStore     string `env:"DRAFT_STORE"     envDefault:"redis"`

	// Database
	DatabaseURL      string        `env:"DATABASE_URL"       envDefault:"postgres://mm:mm@localhost:5432/corebanking?sslmode=disable"`
	DatabaseMaxConns int           `env:"DATABASE_MAX_CONNS" envDefault:"25"`
	DatabaseMinConns int           `env:"DATABASE_MIN_CONNS" envDefault:"5"`
	DatabaseTimeout  time.Duration `env:"DATABASE_TIMEOUT"   envDefault:"30s"`
	MigrationsPath   string        `env:"MIGRATIONS_PATH"    envDefault:""`

	// Core banking HTTP service
	CoreBankingURL           string        `env:"CORE_BANKING_URL"            envDefault:"http://localhost:9000/api/v1"`
	CoreBankingTimeout       time.Duration `env:"CORE_BANKING_TIMEOUT"        envDefault:"10s"`
	CoreBankingMaxRetries    uint64        `env:"CORE_BANKING_MAX_RETRIES"    envDefault:"3"`
	CoreBankingRetryInterval time.Duration `env:"CORE_BANKING_RETRY_INTERVAL" envDefault:"200ms"`

	// Redis
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Rate limiting of account and rate lookups, 0 disables it
	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS"   envDefault:"20"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" envDefault:"40"`
	RateLimitIdle  time.Duration `env:"RATE_LIMIT_IDLE"  envDefault:"10m"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Lifetimes
	DraftTTL       time.Duration `env:"DRAFT_TTL"        envDefault:"12h"`
	RateCacheTTL   time.Duration `env:"RATE_CACHE_TTL"   envDefault:"30s"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL"  envDefault:"24h"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	cfg.LocalCurrency = strings.ToUpper(strings.TrimSpace(cfg.LocalCurrency))
	cfg.AccountBackend = strings.ToLower(strings.TrimSpace(cfg.AccountBackend))
	cfg.DraftStore = strings.ToLower(strings.TrimSpace(cfg.DraftStore))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if len(c.LocalCurrency) != 3 {
		errs = append(errs, fmt.Errorf("LOCAL_CURRENCY must be a 3-letter code, got %q", c.LocalCurrency))
	}

	switch c.AccountBackend {
	case BackendPostgres, BackendHTTP:
	default:
		errs = append(errs, fmt.Errorf("ACCOUNT_BACKEND must be %q or %q, got %q", BackendPostgres, BackendHTTP, c.AccountBackend))
	}

	switch c.DraftStore {
	case DraftStoreRedis, DraftStoreMemory:
	default:
		errs = append(errs, fmt.Errorf("DRAFT_STORE must be %q or %q, got %q", DraftStoreRedis, DraftStoreMemory, c.DraftStore))
	}

	if c.AccountBackend == BackendHTTP && c.CoreBankingURL == "" {
		errs = append(errs, errors.New("CORE_BANKING_URL is required for the http backend"))
	}

	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("rate limit settings must not be negative"))
	}

	return errors.Join(errs...)
}

// UsesPostgres reports whether the account backend needs a database.
func (c *Config) UsesPostgres() bool {
	return c.AccountBackend == BackendPostgres
}

// UsesRedis reports whether drafts live in redis.
func (c *Config) UsesRedis() bool {
	return c.DraftStore == DraftStoreRedis
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	LedgerStore = "store"
	LedgerRedis = "redis"
)

// Config holds all configuration values for the application
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"production"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins  []string      // parsed from ALLOWED_ORIGINS
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory"`
	DatabaseURL  string `env:"DATABASE_URL"`
	AutoMigrate  bool   `env:"AUTO_MIGRATE" envDefault:"false"`

	LedgerBackend string `env:"LEDGER_BACKEND" envDefault:"store"`
	RedisURL      string `env:"REDIS_URL"`

	VoteWindow     time.Duration `env:"VOTE_WINDOW" envDefault:"24h"`
	CloserInterval time.Duration `env:"CLOSER_INTERVAL" envDefault:"1m"`

	JWTSecret     string   `env:"AUTH_JWT_SECRET"`
	AdminAccounts []string // parsed from ADMIN_ACCOUNTS

	RawAllowedOrigins string `env:"ALLOWED_ORIGINS"`
	RawAdminAccounts  string `env:"ADMIN_ACCOUNTS"`
}

// Load reads .env if present, parses the environment and validates the result
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.AllowedOrigins = parseList(cfg.RawAllowedOrigins)
	cfg.AdminAccounts = parseList(cfg.RawAdminAccounts)
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.LedgerBackend = strings.ToLower(strings.TrimSpace(cfg.LedgerBackend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects inconsistent backend combinations and missing secrets
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_BACKEND=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	switch c.LedgerBackend {
	case LedgerStore:
	case LedgerRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when LEDGER_BACKEND=redis"))
		}
		// a Redis debit cannot join a Postgres transaction
		if c.StoreBackend == StorePostgres {
			errs = append(errs, errors.New("LEDGER_BACKEND=redis requires STORE_BACKEND=memory"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LEDGER_BACKEND %q", c.LedgerBackend))
	}

	if c.VoteWindow <= 0 {
		errs = append(errs, errors.New("VOTE_WINDOW must be positive"))
	}
	if c.CloserInterval < 0 {
		errs = append(errs, errors.New("CLOSER_INTERVAL must not be negative"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	}

	return errors.Join(errs...)
}

// parseList parses a comma-separated list, dropping blanks
func parseList(raw string) []string {
	if raw == "" {
		return []string{}
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

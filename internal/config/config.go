package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// JWTSecret enables Bearer token auth on the advisor routes when set
	JWTSecret string `env:"JWT_SECRET"`

	// RedisAddr enables rate limiting when set
	RedisAddr         string        `env:"REDIS_ADDR"`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"60"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	// AuditDriver enables the audit trail when set: postgres or sqlite
	AuditDriver        string        `env:"AUDIT_DRIVER"`
	AuditDSN           string        `env:"AUDIT_DSN"`
	AuditRetention     time.Duration `env:"AUDIT_RETENTION" envDefault:"720h"`
	AuditPruneSchedule string        `env:"AUDIT_PRUNE_SCHEDULE" envDefault:"@hourly"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Port == "" {
		return nil, fmt.Errorf("PORT is required")
	}
	if cfg.RedisAddr != "" {
		if cfg.RateLimitRequests <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_REQUESTS must be positive")
		}
		if cfg.RateLimitWindow <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	switch cfg.AuditDriver {
	case "":
	case "postgres", "sqlite":
		if cfg.AuditDSN == "" {
			return nil, fmt.Errorf("AUDIT_DSN is required when AUDIT_DRIVER is set")
		}
		if cfg.AuditRetention <= 0 {
			return nil, fmt.Errorf("AUDIT_RETENTION must be positive")
		}
	default:
		return nil, fmt.Errorf("AUDIT_DRIVER must be postgres or sqlite, got %q", cfg.AuditDriver)
	}

	return cfg, nil
}

// AuditEnabled reports whether an audit store is configured
func (c *Config) AuditEnabled() bool {
	return c.AuditDriver != ""
}

// RateLimitEnabled reports whether a Redis rate limiter is configured
func (c *Config) RateLimitEnabled() bool {
	return c.RedisAddr != ""
}

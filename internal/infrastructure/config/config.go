package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Cache backend selectors.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	// Database (optional - leave empty to disable variance history)
	DatabaseURL      string        `env:"DATABASE_URL"       envDefault:""`
	DatabaseMaxConns int           `env:"DATABASE_MAX_CONNS" envDefault:"25"`
	DatabaseMinConns int           `env:"DATABASE_MIN_CONNS" envDefault:"5"`
	DatabaseTimeout  time.Duration `env:"DATABASE_TIMEOUT"   envDefault:"30s"`

	// Cache
	CacheBackend string        `env:"CACHE_BACKEND" envDefault:"memory"`
	CacheTTL     time.Duration `env:"CACHE_TTL"     envDefault:"1h"`
	CacheSweep   time.Duration `env:"CACHE_SWEEP"   envDefault:"5m"`
	RedisURL     string        `env:"REDIS_URL"     envDefault:"redis://localhost:6379"`

	// Severity thresholds (percentage points)
	CriticalThreshold  float64 `env:"CRITICAL_THRESHOLD"  envDefault:"15"`
	WarningThreshold   float64 `env:"WARNING_THRESHOLD"   envDefault:"10"`
	FavorableThreshold float64 `env:"FAVORABLE_THRESHOLD" envDefault:"-5"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.CacheBackend != CacheBackendMemory && cfg.CacheBackend != CacheBackendRedis {
		return nil, fmt.Errorf("invalid CACHE_BACKEND %q: must be %q or %q",
			cfg.CacheBackend, CacheBackendMemory, CacheBackendRedis)
	}

	return cfg, nil
}

// HistoryEnabled reports whether a database is configured for
// variance history.
func (c *Config) HistoryEnabled() bool {
	return c.DatabaseURL != ""
}

package config_test

import (
	"testing"
	"time"

	"github.com/finboard/variance/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CACHE_BACKEND", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "" {
		t.Fatalf("expected default database URL to be empty, got %q", cfg.DatabaseURL)
	}

	if cfg.HistoryEnabled() {
		t.Fatalf("expected history to be disabled without a database URL")
	}

	if cfg.CacheBackend != config.CacheBackendMemory {
		t.Fatalf("expected default cache backend memory, got %s", cfg.CacheBackend)
	}

	if cfg.CacheTTL != time.Hour {
		t.Fatalf("expected default cache TTL 1h, got %s", cfg.CacheTTL)
	}

	if cfg.CriticalThreshold != 15 || cfg.WarningThreshold != 10 || cfg.FavorableThreshold != -5 {
		t.Fatalf("unexpected default thresholds: %+v", cfg)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("CRITICAL_THRESHOLD", "20")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if !cfg.HistoryEnabled() {
		t.Fatalf("expected history to be enabled")
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.CacheBackend != config.CacheBackendRedis {
		t.Fatalf("expected redis cache backend, got %s", cfg.CacheBackend)
	}

	if cfg.CacheTTL != 30*time.Minute {
		t.Fatalf("expected cache TTL override, got %s", cfg.CacheTTL)
	}

	if cfg.CriticalThreshold != 20 {
		t.Fatalf("expected critical threshold override, got %v", cfg.CriticalThreshold)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}
}

func TestLoadInvalidBackend(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memcached")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for unsupported cache backend")
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("CACHE_TTL", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

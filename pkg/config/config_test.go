package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != AppEnvDev {
		t.Fatalf("expected default env %q, got %q", AppEnvDev, cfg.App.Env)
	}
	if cfg.Directory.PollInterval != 30*time.Second {
		t.Fatalf("expected 30s poll interval, got %v", cfg.Directory.PollInterval)
	}
	if cfg.Assistant.MaxIterations != 15 {
		t.Fatalf("expected 15 max iterations, got %d", cfg.Assistant.MaxIterations)
	}
	if cfg.Upstream.APIBaseURL != "http://localhost:8000/api" {
		t.Fatalf("unexpected api base url %q", cfg.Upstream.APIBaseURL)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("redis should be disabled without url or address")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvAPIBaseURL, "https://supply.example.com/api/")
	t.Setenv(EnvStreamURL, "wss://supply.example.com/ws")
	t.Setenv(EnvPollInterval, "5s")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvCORSOrigins, "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.App.IsProd() {
		t.Fatalf("expected prod env, got %q", cfg.App.Env)
	}
	if cfg.Upstream.APIBaseURL != "https://supply.example.com/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Upstream.APIBaseURL)
	}
	if cfg.Directory.PollInterval != 5*time.Second {
		t.Fatalf("expected 5s poll interval, got %v", cfg.Directory.PollInterval)
	}
	if !cfg.Redis.Enabled() {
		t.Fatalf("expected redis enabled")
	}
	if len(cfg.App.CORSOrigins) != 2 || cfg.App.CORSOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected cors origins %v", cfg.App.CORSOrigins)
	}
}

func TestLoad_RejectsBadStreamURL(t *testing.T) {
	t.Setenv(EnvStreamURL, "http://localhost:8000/ws")

	if _, err := Load(); err == nil {
		t.Fatal("expected non-websocket stream url to be rejected")
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}
}

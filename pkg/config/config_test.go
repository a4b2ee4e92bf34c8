package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalYAML = `
environment: test
predictor:
  base_url: http://localhost:8000
dashboard:
  symbols: [AAPL, TSLA]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Dashboard.LookbackDefault != 60 {
		t.Fatalf("expected lookback default 60, got %d", cfg.Dashboard.LookbackDefault)
	}
	if cfg.Dashboard.DefaultSymbol != "AAPL" {
		t.Fatalf("expected default symbol AAPL, got %s", cfg.Dashboard.DefaultSymbol)
	}
	if cfg.Session.Backend != "memory" {
		t.Fatalf("expected memory backend, got %s", cfg.Session.Backend)
	}
	if cfg.Predictor.Timeout != 30*time.Second {
		t.Fatalf("expected 30s predictor timeout, got %s", cfg.Predictor.Timeout)
	}
	if cfg.Predictor.ChatTimeout != cfg.Predictor.Timeout {
		t.Fatalf("chat timeout must default to predictor timeout, got %s", cfg.Predictor.ChatTimeout)
	}
}

func TestLoadRejectsMissingRequired(t *testing.T) {
	if _, err := Load(writeConfig(t, "environment: test\n")); err == nil {
		t.Fatal("expected validation error for missing predictor url")
	}

	bad := `
environment: test
predictor:
  base_url: http://localhost:8000
dashboard:
  symbols: [AAPL]
session:
  backend: postgres
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatal("expected validation error for unknown session backend")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PREDICTOR_URL", "http://predictor:8000")
	t.Setenv("SYMBOLS", "NVDA,MSFT")
	t.Setenv("REDIS_ADDR", "redis:6380")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Predictor.BaseURL != "http://predictor:8000" {
		t.Fatalf("unexpected predictor url: %s", cfg.Predictor.BaseURL)
	}
	if len(cfg.Dashboard.Symbols) != 2 || cfg.Dashboard.Symbols[0] != "NVDA" {
		t.Fatalf("unexpected symbols: %v", cfg.Dashboard.Symbols)
	}
	if cfg.Session.Redis.Host != "redis" || cfg.Session.Redis.Port != 6380 {
		t.Fatalf("unexpected redis addr: %s:%d", cfg.Session.Redis.Host, cfg.Session.Redis.Port)
	}
}

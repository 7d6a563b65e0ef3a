package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when only the dataset is set", func(t *testing.T) {
		t.Setenv("PLASTICLENS_DATASET_SOURCE", "data/plasticlist.csv")

		cfg, err := Load("", Overrides{})
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Dataset.FetchTimeout != 30*time.Second {
			t.Errorf("Dataset.FetchTimeout = %v, want 30s", cfg.Dataset.FetchTimeout)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 10*time.Minute {
			t.Errorf("Cache.TTL = %v, want 10m", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 120 {
			t.Errorf("RateLimit.PerIP = %d, want 120", cfg.RateLimit.PerIP)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
		if cfg.MCP.Name != "plasticlens" {
			t.Errorf("MCP.Name = %s, want plasticlens", cfg.MCP.Name)
		}
		if !cfg.CacheEnabled() {
			t.Errorf("CacheEnabled() = false, want true")
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		t.Setenv("PLASTICLENS_SERVER_PORT", "9090")
		t.Setenv("PLASTICLENS_SERVER_ENVIRONMENT", "production")
		t.Setenv("PLASTICLENS_DATASET_SOURCE", "https://example.com/products.csv")
		t.Setenv("PLASTICLENS_DATASET_FETCH_TIMEOUT", "5s")
		t.Setenv("PLASTICLENS_CACHE_TYPE", "none")
		t.Setenv("PLASTICLENS_CACHE_TTL", "1h")
		t.Setenv("PLASTICLENS_RATELIMIT_PER_IP", "300")
		t.Setenv("PLASTICLENS_LOG_LEVEL", "debug")
		t.Setenv("PLASTICLENS_METRICS_ADDR", ":9100")

		cfg, err := Load("", Overrides{})
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Dataset.Source != "https://example.com/products.csv" {
			t.Errorf("Dataset.Source = %s, want https://example.com/products.csv", cfg.Dataset.Source)
		}
		if cfg.Dataset.FetchTimeout != 5*time.Second {
			t.Errorf("Dataset.FetchTimeout = %v, want 5s", cfg.Dataset.FetchTimeout)
		}
		if cfg.CacheEnabled() {
			t.Errorf("CacheEnabled() = true, want false")
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 300 {
			t.Errorf("RateLimit.PerIP = %d, want 300", cfg.RateLimit.PerIP)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
		}
		if cfg.Metrics.Addr != ":9100" {
			t.Errorf("Metrics.Addr = %s, want :9100", cfg.Metrics.Addr)
		}
	})

	t.Run("dataset source has no default", func(t *testing.T) {
		_, err := Load("", Overrides{})
		if err == nil {
			t.Fatal("Load() error = nil, want error for missing dataset source")
		}
		if !strings.Contains(err.Error(), "dataset source is required") {
			t.Errorf("Load() error = %v, want 'dataset source is required'", err)
		}
	})

	t.Run("fails validation when dataset source is blank", func(t *testing.T) {
		t.Setenv("PLASTICLENS_DATASET_SOURCE", " ")

		_, err := Load("", Overrides{})
		if err == nil {
			t.Fatal("Load() error = nil, want error for missing dataset source")
		}
		if !strings.Contains(err.Error(), "dataset source is required") {
			t.Errorf("Load() error = %v, want 'dataset source is required'", err)
		}
	})

	t.Run("overrides satisfy validation and beat the environment", func(t *testing.T) {
		t.Setenv("PLASTICLENS_LOG_LEVEL", "debug")

		cfg, err := Load("", Overrides{DatasetSource: "/tmp/list.csv", LogLevel: "warn"})
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Dataset.Source != "/tmp/list.csv" {
			t.Errorf("Dataset.Source = %s, want /tmp/list.csv", cfg.Dataset.Source)
		}
		if cfg.Log.Level != "warn" {
			t.Errorf("Log.Level = %s, want warn", cfg.Log.Level)
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		t.Setenv("PLASTICLENS_DATASET_SOURCE", "data/plasticlist.csv")
		t.Setenv("PLASTICLENS_CACHE_TYPE", "redis")

		if _, err := Load("", Overrides{}); err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})

	t.Run("fails validation for negative rate limit", func(t *testing.T) {
		t.Setenv("PLASTICLENS_DATASET_SOURCE", "data/plasticlist.csv")
		t.Setenv("PLASTICLENS_RATELIMIT_PER_IP", "-1")

		if _, err := Load("", Overrides{}); err == nil {
			t.Error("Load() error = nil, want error for negative rate limit")
		}
	})

	t.Run("allows disabling rate limiting", func(t *testing.T) {
		t.Setenv("PLASTICLENS_DATASET_SOURCE", "data/plasticlist.csv")
		t.Setenv("PLASTICLENS_RATELIMIT_PER_IP", "0")
		t.Setenv("PLASTICLENS_RATELIMIT_BURST", "0")

		cfg, err := Load("", Overrides{})
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.RateLimit.PerIP != 0 {
			t.Errorf("RateLimit.PerIP = %d, want 0", cfg.RateLimit.PerIP)
		}
	})
}

func TestLoad_File(t *testing.T) {
	t.Run("reads explicit yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plasticlens.yaml")
		content := `
dataset:
  source: /srv/data/products.csv
server:
  port: "7000"
  allowed_origins:
    - https://plasticlist.org
log:
  format: console
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		cfg, err := Load(path, Overrides{})
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Dataset.Source != "/srv/data/products.csv" {
			t.Errorf("Dataset.Source = %s, want /srv/data/products.csv", cfg.Dataset.Source)
		}
		if cfg.Server.Port != "7000" {
			t.Errorf("Server.Port = %s, want 7000", cfg.Server.Port)
		}
		if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "https://plasticlist.org" {
			t.Errorf("Server.AllowedOrigins = %v, want [https://plasticlist.org]", cfg.Server.AllowedOrigins)
		}
		if cfg.Log.Format != "console" {
			t.Errorf("Log.Format = %s, want console", cfg.Log.Format)
		}
		// Untouched keys keep their defaults.
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plasticlens.yaml")
		if err := os.WriteFile(path, []byte("server:\n  port: \"7000\"\n"), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		t.Setenv("PLASTICLENS_SERVER_PORT", "7001")
		t.Setenv("PLASTICLENS_DATASET_SOURCE", "data/plasticlist.csv")

		cfg, err := Load(path, Overrides{})
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Server.Port != "7001" {
			t.Errorf("Server.Port = %s, want 7001", cfg.Server.Port)
		}
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), Overrides{DatasetSource: "x.csv"})
		if err == nil {
			t.Error("Load() error = nil, want error for missing file")
		}
	})
}

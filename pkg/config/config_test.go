package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with empty path failed: %v", err)
	}

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("expected default listen address, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.Mode != ModeProduction {
		t.Errorf("expected production mode by default, got %q", cfg.Server.Mode)
	}
	if cfg.Providers.Timeout != DefaultProviderTimeout {
		t.Errorf("expected default provider timeout, got %s", cfg.Providers.Timeout)
	}
	if cfg.KV.Backend != "memory" {
		t.Errorf("expected memory backend, got %q", cfg.KV.Backend)
	}
	if cfg.RateLimit.AI.MaxRequests != DefaultAIMaxRequests {
		t.Errorf("expected default AI limit, got %d", cfg.RateLimit.AI.MaxRequests)
	}
}

func TestLoad_FromFile(t *testing.T) {
	content := `
server:
  listen_address: ":9000"
providers:
  anthropic:
    api_key: test-anthropic-key
rate_limit:
  ai:
    window: 30s
    max_requests: 10
logging:
  level: debug
  format: text
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.ListenAddress != ":9000" {
		t.Errorf("expected listen address :9000, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Providers.Anthropic.APIKey != "test-anthropic-key" {
		t.Errorf("expected anthropic key from file, got %q", cfg.Providers.Anthropic.APIKey)
	}
	if cfg.RateLimit.AI.Window != 30*time.Second {
		t.Errorf("expected 30s AI window, got %s", cfg.RateLimit.AI.Window)
	}
	if cfg.RateLimit.AI.MaxRequests != 10 {
		t.Errorf("expected AI max 10, got %d", cfg.RateLimit.AI.MaxRequests)
	}
	// Unset fields keep their defaults.
	if cfg.RateLimit.KV.MaxRequests != DefaultKVMaxRequests {
		t.Errorf("expected default KV limit, got %d", cfg.RateLimit.KV.MaxRequests)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Logging.Level)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SPARK_SERVER_LISTEN_ADDRESS", ":7777")
	t.Setenv("SPARK_SERVER_MODE", "development")
	t.Setenv("SPARK_ANTHROPIC_API_KEY", "env-key")
	t.Setenv("SPARK_RATELIMIT_AI_MAX_REQUESTS", "5")
	t.Setenv("SPARK_METRICS_ENABLED", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.ListenAddress != ":7777" {
		t.Errorf("expected env listen address, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Providers.Anthropic.APIKey != "env-key" {
		t.Errorf("expected env anthropic key, got %q", cfg.Providers.Anthropic.APIKey)
	}
	if cfg.RateLimit.AI.MaxRequests != 5 {
		t.Errorf("expected env AI limit 5, got %d", cfg.RateLimit.AI.MaxRequests)
	}
	if !cfg.Metrics.Enabled {
		t.Error("expected metrics enabled from env")
	}
	if cfg.Server.Mode != ModeDevelopment {
		t.Errorf("expected development mode from env, got %q", cfg.Server.Mode)
	}
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	content := "server:\n  listen_address: \":9000\"\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte(content), 0o600)

	t.Setenv("SPARK_SERVER_LISTEN_ADDRESS", ":6000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.ListenAddress != ":6000" {
		t.Errorf("expected env to win over file, got %q", cfg.Server.ListenAddress)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		ApplyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"no provider key is valid", func(c *Config) {
			c.Providers.Anthropic.APIKey = ""
			c.Providers.OpenAI.APIKey = ""
		}, false},
		{"sqlite needs path", func(c *Config) {
			c.KV.Backend = "sqlite"
			c.KV.Path = ""
		}, true},
		{"sqlite with path is valid", func(c *Config) {
			c.KV.Backend = "sqlite"
			c.KV.Path = "/tmp/kv.db"
		}, false},
		{"unknown backend", func(c *Config) { c.KV.Backend = "redis" }, true},
		{"development mode is valid", func(c *Config) { c.Server.Mode = ModeDevelopment }, false},
		{"unknown mode", func(c *Config) { c.Server.Mode = "staging" }, true},
		{"zero AI window", func(c *Config) { c.RateLimit.AI.Window = 0 }, true},
		{"negative KV max", func(c *Config) { c.RateLimit.KV.MaxRequests = -1 }, true},
		{"bad sweep schedule", func(c *Config) { c.RateLimit.SweepSchedule = "nope" }, true},
		{"write timeout below provider timeout", func(c *Config) {
			c.Server.WriteTimeout = 10 * time.Second
		}, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

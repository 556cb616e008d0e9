package config

import (
	"time"

	"toolkit24/spark/pkg/limits/ratelimit"
)

// Default values applied to unset fields.
const (
	DefaultListenAddress   = ":8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	DefaultProviderTimeout = 30 * time.Second

	DefaultKVBackend = "memory"

	DefaultKVWindow      = time.Minute
	DefaultKVMaxRequests = 300
	DefaultAIWindow      = time.Minute
	DefaultAIMaxRequests = 30
)

// ApplyDefaults fills unset fields with default values.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = ModeProduction
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Providers.Timeout == 0 {
		cfg.Providers.Timeout = DefaultProviderTimeout
	}

	if cfg.KV.Backend == "" {
		cfg.KV.Backend = DefaultKVBackend
	}

	if cfg.RateLimit.KV.Window == 0 {
		cfg.RateLimit.KV.Window = DefaultKVWindow
	}
	if cfg.RateLimit.KV.MaxRequests == 0 {
		cfg.RateLimit.KV.MaxRequests = DefaultKVMaxRequests
	}
	if cfg.RateLimit.AI.Window == 0 {
		cfg.RateLimit.AI.Window = DefaultAIWindow
	}
	if cfg.RateLimit.AI.MaxRequests == 0 {
		cfg.RateLimit.AI.MaxRequests = DefaultAIMaxRequests
	}
	if cfg.RateLimit.SweepSchedule == "" {
		cfg.RateLimit.SweepSchedule = ratelimit.DefaultSweepSchedule
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

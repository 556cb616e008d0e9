package config

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"toolkit24/spark/pkg/telemetry/logging"
)

// Validate checks the configuration for inconsistencies. It does not
// require a provider key: the server starts without one and the AI route
// reports the missing configuration per request.
func Validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address must not be empty")
	}
	switch cfg.Server.Mode {
	case ModeProduction, ModeDevelopment:
	default:
		return fmt.Errorf("server.mode must be %q or %q, got %q", ModeProduction, ModeDevelopment, cfg.Server.Mode)
	}
	if cfg.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}
	if cfg.Server.WriteTimeout <= cfg.Providers.Timeout {
		return fmt.Errorf("server.write_timeout (%s) must exceed providers.timeout (%s)",
			cfg.Server.WriteTimeout, cfg.Providers.Timeout)
	}

	if cfg.Providers.Timeout <= 0 {
		return fmt.Errorf("providers.timeout must be positive")
	}

	switch cfg.KV.Backend {
	case "memory":
	case "sqlite":
		if cfg.KV.Path == "" {
			return fmt.Errorf("kv.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("kv.backend must be %q or %q, got %q", "memory", "sqlite", cfg.KV.Backend)
	}

	for name, class := range map[string]LimitClassConfig{
		"rate_limit.kv": cfg.RateLimit.KV,
		"rate_limit.ai": cfg.RateLimit.AI,
	} {
		if class.Window <= 0 {
			return fmt.Errorf("%s.window must be positive", name)
		}
		if class.MaxRequests <= 0 {
			return fmt.Errorf("%s.max_requests must be positive", name)
		}
	}

	if _, err := cron.ParseStandard(cfg.RateLimit.SweepSchedule); err != nil {
		return fmt.Errorf("rate_limit.sweep_schedule is not a valid cron expression: %w", err)
	}

	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	return nil
}

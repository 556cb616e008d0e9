package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "SPARK"

// Load loads configuration from a YAML file, applies defaults and
// environment overrides, and validates the result. An empty path skips
// the file and builds the configuration from defaults and environment
// alone.
//
// The loading sequence is:
//  1. Parse YAML from file (if path is set)
//  2. Apply default values
//  3. Apply SPARK_* environment overrides
//  4. Validate final configuration
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies SPARK_SECTION_FIELD environment overrides.
// Environment variables always win over file values.
func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Server.ListenAddress, "SERVER_LISTEN_ADDRESS")
	setString(&cfg.Server.Mode, "SERVER_MODE")
	setDuration(&cfg.Server.ReadTimeout, "SERVER_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT")
	setDuration(&cfg.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT")
	setDuration(&cfg.Server.ShutdownTimeout, "SERVER_SHUTDOWN_TIMEOUT")

	setString(&cfg.Providers.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	setString(&cfg.Providers.Anthropic.BaseURL, "ANTHROPIC_BASE_URL")
	setString(&cfg.Providers.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.Providers.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setDuration(&cfg.Providers.Timeout, "PROVIDERS_TIMEOUT")

	setString(&cfg.KV.Backend, "KV_BACKEND")
	setString(&cfg.KV.Path, "KV_PATH")

	setDuration(&cfg.RateLimit.KV.Window, "RATELIMIT_KV_WINDOW")
	setInt(&cfg.RateLimit.KV.MaxRequests, "RATELIMIT_KV_MAX_REQUESTS")
	setDuration(&cfg.RateLimit.AI.Window, "RATELIMIT_AI_WINDOW")
	setInt(&cfg.RateLimit.AI.MaxRequests, "RATELIMIT_AI_MAX_REQUESTS")
	setString(&cfg.RateLimit.SweepSchedule, "RATELIMIT_SWEEP_SCHEDULE")

	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")
	setString(&cfg.Logging.Output, "LOG_OUTPUT")

	setBool(&cfg.Metrics.Enabled, "METRICS_ENABLED")
}

func envVar(name string) string {
	return os.Getenv(EnvPrefix + "_" + name)
}

func setString(target *string, name string) {
	if val := envVar(name); val != "" {
		*target = val
	}
}

func setDuration(target *time.Duration, name string) {
	if val := envVar(name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*target = d
		}
	}
}

func setInt(target *int, name string) {
	if val := envVar(name); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*target = i
		}
	}
}

func setBool(target *bool, name string) {
	if val := envVar(name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*target = b
		}
	}
}

package config

import (
	"time"

	"toolkit24/spark/pkg/telemetry/logging"
)

// Config is the root configuration for the toolkit backend.
type Config struct {
	// Server configures the HTTP listener.
	Server ServerConfig `yaml:"server"`

	// Providers configures the upstream AI providers.
	Providers ProvidersConfig `yaml:"providers"`

	// KV configures the key-value store backend.
	KV KVConfig `yaml:"kv"`

	// RateLimit configures per-route-class rate limiting.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Logging configures the structured logger.
	Logging logging.Config `yaml:"logging"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`
}

// Deployment modes. Production responses carry generic error messages;
// development responses include the underlying error text.
const (
	ModeProduction  = "production"
	ModeDevelopment = "development"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// ListenAddress is the host:port to bind (default ":8080").
	ListenAddress string `yaml:"listen_address"`

	// Mode is the deployment mode: "production" (default) or
	// "development". Development error responses include diagnostic
	// detail.
	Mode string `yaml:"mode"`

	// ReadTimeout bounds reading a request including the body.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds writing a response. Must stay comfortably above
	// the provider timeout or streams get cut off.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout bounds keep-alive connections.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ProvidersConfig configures the upstream AI providers.
type ProvidersConfig struct {
	// Anthropic is the primary provider; used whenever its APIKey is set.
	Anthropic ProviderConfig `yaml:"anthropic"`

	// OpenAI is the fallback provider; used when Anthropic has no key.
	OpenAI ProviderConfig `yaml:"openai"`

	// Timeout is the wall-clock bound on each upstream request.
	Timeout time.Duration `yaml:"timeout"`
}

// ProviderConfig configures one upstream provider.
type ProviderConfig struct {
	// APIKey is the provider credential. Empty disables the provider.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default API endpoint.
	BaseURL string `yaml:"base_url"`
}

// KVConfig configures the key-value store.
type KVConfig struct {
	// Backend selects the store: "memory" (default) or "sqlite".
	Backend string `yaml:"backend"`

	// Path is the SQLite database file, required for the sqlite backend.
	Path string `yaml:"path"`
}

// RateLimitConfig configures the per-class limiters and their sweep.
type RateLimitConfig struct {
	// KV is the limit class for the key-value routes.
	KV LimitClassConfig `yaml:"kv"`

	// AI is the limit class for the chat completion route.
	AI LimitClassConfig `yaml:"ai"`

	// SweepSchedule is the cron expression for expired-entry sweeping.
	SweepSchedule string `yaml:"sweep_schedule"`
}

// LimitClassConfig configures one fixed-window limit class.
type LimitClassConfig struct {
	// Window is the fixed window duration.
	Window time.Duration `yaml:"window"`

	// MaxRequests is the allowed requests per window per client.
	MaxRequests int `yaml:"max_requests"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled exposes /metrics when true.
	Enabled bool `yaml:"enabled"`
}

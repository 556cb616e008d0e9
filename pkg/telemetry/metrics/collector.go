package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the Prometheus metrics for the toolkit backend: HTTP
// request counts and latency, KV operation counts, rate limit
// rejections, and provider request outcomes.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	// KV metrics
	kvOperations *prometheus.CounterVec
	kvEntries    prometheus.Gauge

	// Rate limit metrics
	rateLimitRejections *prometheus.CounterVec

	// Provider metrics
	providerRequests *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	providerTokens   *prometheus.CounterVec
}

// NewCollector creates a collector registered against its own registry.
// If registry is nil a fresh one is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	const namespace = "spark"

	c := &Collector{
		registry: registry,

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by route, method, and status code.",
		}, []string{"route", "method", "status"}),

		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{0.001, 0.005, 0.025, 0.1, 0.25, 1.0, 5.0, 15.0, 30.0},
		}, []string{"route"}),

		kvOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kv_operations_total",
			Help:      "Total KV store operations by operation and outcome.",
		}, []string{"operation", "outcome"}),

		kvEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "kv_entries",
			Help:      "Current number of entries in the KV store.",
		}),

		rateLimitRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratelimit_rejections_total",
			Help:      "Total requests rejected by the rate limiter, by class.",
		}, []string{"class"}),

		providerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Total upstream AI provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),

		providerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Upstream AI provider latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		}, []string{"provider"}),

		providerTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_tokens_total",
			Help:      "Total tokens consumed by direction (prompt/completion).",
		}, []string{"provider", "direction"}),
	}

	registry.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.kvOperations,
		c.kvEntries,
		c.rateLimitRejections,
		c.providerRequests,
		c.providerDuration,
		c.providerTokens,
	)

	return c
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordHTTPRequest records one completed HTTP request.
func (c *Collector) RecordHTTPRequest(route, method, status string, duration time.Duration) {
	c.httpRequests.WithLabelValues(route, method, status).Inc()
	c.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordKVOperation records one KV store operation.
func (c *Collector) RecordKVOperation(operation, outcome string) {
	c.kvOperations.WithLabelValues(operation, outcome).Inc()
}

// SetKVEntries updates the KV entry count gauge.
func (c *Collector) SetKVEntries(n int) {
	c.kvEntries.Set(float64(n))
}

// RecordRateLimitRejection records one rate-limited request.
func (c *Collector) RecordRateLimitRejection(class string) {
	c.rateLimitRejections.WithLabelValues(class).Inc()
}

// RecordProviderRequest records one upstream provider request.
func (c *Collector) RecordProviderRequest(provider, outcome string, duration time.Duration) {
	c.providerRequests.WithLabelValues(provider, outcome).Inc()
	c.providerDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordProviderTokens records token consumption for a provider request.
func (c *Collector) RecordProviderTokens(provider string, promptTokens, completionTokens int) {
	if promptTokens > 0 {
		c.providerTokens.WithLabelValues(provider, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		c.providerTokens.WithLabelValues(provider, "completion").Add(float64(completionTokens))
	}
}

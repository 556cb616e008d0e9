package providers

import "context"

// Provider is the core interface that all AI provider adapters must implement.
// It provides a unified abstraction for interacting with different upstream
// providers (Anthropic, OpenAI).
//
// All methods accept a context.Context for cancellation and timeout control.
// Implementations must respect context cancellation and return immediately when
// the context is cancelled.
type Provider interface {
	// SendCompletion sends a completion request to the provider and returns the response.
	// The request is transformed to the provider-specific format, sent to the provider,
	// and the response is normalized to the provider-agnostic format.
	SendCompletion(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// StreamCompletion sends a streaming completion request to the provider.
	// It returns a channel that yields incremental response chunks as they arrive.
	//
	// The caller must read from the channel until it closes. If an error occurs during
	// streaming, it will be set in the Error field of the final StreamChunk.
	//
	// The context is used for cancellation. If the context is cancelled, the stream
	// will be closed and no more chunks will be sent.
	StreamCompletion(ctx context.Context, req *CompletionRequest) (<-chan *StreamChunk, error)

	// GetName returns the provider's configured name (e.g., "openai", "anthropic").
	GetName() string

	// GetConfig returns the provider's configuration.
	GetConfig() ProviderConfig

	// IsHealthy returns the current health status of the provider,
	// derived from recent request outcomes.
	IsHealthy() bool

	// GetHealth returns detailed health information including consecutive
	// failures and error details.
	GetHealth() ProviderHealth

	// Close closes the provider and releases any resources (HTTP connections, etc.).
	// After calling Close, the provider should not be used.
	Close() error
}

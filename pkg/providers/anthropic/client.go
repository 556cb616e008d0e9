package anthropic

import (
	"context"
	"log/slog"
	"net/http"

	"toolkit24/spark/pkg/providers"
)

const (
	// DefaultBaseURL is the default Anthropic API base URL.
	DefaultBaseURL = "https://api.anthropic.com"

	// APIVersion is the Anthropic API version header value.
	APIVersion = "2023-06-01"

	// MessagesEndpoint is the messages API endpoint path.
	MessagesEndpoint = "/v1/messages"
)

// Provider implements the providers.Provider interface for Anthropic.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates a new Anthropic provider with the given configuration.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: "anthropic",
			Field:    "api_key",
			Message:  "API key is required",
		}
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Name == "" {
		config.Name = "anthropic"
	}

	httpProvider := providers.NewHTTPProvider(config)

	slog.Info("anthropic provider initialized",
		"base_url", config.BaseURL,
		"timeout", config.Timeout,
	)

	return &Provider{
		HTTPProvider: httpProvider,
	}, nil
}

// SendCompletion sends a completion request to Anthropic and returns the response.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	anthropicReq := transformRequest(req)
	anthropicReq.Stream = false

	url := p.GetConfig().BaseURL + MessagesEndpoint

	var anthropicResp AnthropicResponse
	err := p.DoJSONRequest(ctx, http.MethodPost, url, anthropicReq, &anthropicResp, p.headers())
	if err != nil {
		return nil, err
	}

	return transformResponse(&anthropicResp), nil
}

// StreamCompletion sends a streaming completion request to Anthropic.
func (p *Provider) StreamCompletion(ctx context.Context, req *providers.CompletionRequest) (<-chan *providers.StreamChunk, error) {
	anthropicReq := transformRequest(req)
	anthropicReq.Stream = true

	url := p.GetConfig().BaseURL + MessagesEndpoint

	body, err := marshalRequest(anthropicReq)
	if err != nil {
		return nil, err
	}

	resp, err := p.DoRequest(ctx, http.MethodPost, url, body, p.headers())
	if err != nil {
		return nil, err
	}

	chunks := make(chan *providers.StreamChunk)
	go p.readStream(ctx, resp, chunks)

	return chunks, nil
}

// headers returns the HTTP headers required by the Anthropic API.
func (p *Provider) headers() map[string]string {
	return map[string]string{
		"x-api-key":         p.GetConfig().APIKey,
		"anthropic-version": APIVersion,
		"Content-Type":      "application/json",
	}
}

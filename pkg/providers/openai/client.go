package openai

import (
	"context"
	"log/slog"
	"net/http"

	"toolkit24/spark/pkg/providers"
)

const (
	// DefaultBaseURL is the default OpenAI API base URL.
	DefaultBaseURL = "https://api.openai.com"

	// ChatCompletionsEndpoint is the chat completions API endpoint path.
	ChatCompletionsEndpoint = "/v1/chat/completions"
)

// Provider implements the providers.Provider interface for OpenAI.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates a new OpenAI provider with the given configuration.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: "openai",
			Field:    "api_key",
			Message:  "API key is required",
		}
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Name == "" {
		config.Name = "openai"
	}

	httpProvider := providers.NewHTTPProvider(config)

	slog.Info("openai provider initialized",
		"base_url", config.BaseURL,
		"timeout", config.Timeout,
	)

	return &Provider{
		HTTPProvider: httpProvider,
	}, nil
}

// SendCompletion sends a completion request to OpenAI and returns the response.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	openaiReq := transformRequest(req)
	openaiReq.Stream = false

	url := p.GetConfig().BaseURL + ChatCompletionsEndpoint

	var openaiResp OpenAIResponse
	err := p.DoJSONRequest(ctx, http.MethodPost, url, openaiReq, &openaiResp, p.headers())
	if err != nil {
		return nil, err
	}

	return transformResponse(&openaiResp), nil
}

// StreamCompletion sends a streaming completion request to OpenAI.
func (p *Provider) StreamCompletion(ctx context.Context, req *providers.CompletionRequest) (<-chan *providers.StreamChunk, error) {
	openaiReq := transformRequest(req)
	openaiReq.Stream = true

	url := p.GetConfig().BaseURL + ChatCompletionsEndpoint

	body, err := marshalRequest(openaiReq)
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

// headers returns the HTTP headers required by the OpenAI API.
func (p *Provider) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + p.GetConfig().APIKey,
		"Content-Type":  "application/json",
	}
}

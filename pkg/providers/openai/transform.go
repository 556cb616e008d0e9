package openai

import (
	"toolkit24/spark/pkg/providers"
)

// OpenAI API request/response types

// OpenAIRequest represents an OpenAI chat completion request.
type OpenAIRequest struct {
	Model     string          `json:"model"`
	Messages  []OpenAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens,omitempty"`
	Stream    bool            `json:"stream,omitempty"`
}

// OpenAIMessage represents a message in OpenAI format.
type OpenAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAIResponse represents an OpenAI chat completion response.
type OpenAIResponse struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []OpenAIChoice `json:"choices"`
	Usage   OpenAIUsage    `json:"usage"`
}

// OpenAIChoice represents a completion choice in OpenAI format.
type OpenAIChoice struct {
	Index        int           `json:"index"`
	Message      OpenAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// OpenAIUsage represents token usage in OpenAI format.
type OpenAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// OpenAI streaming response types

// OpenAIStreamResponse represents a chunk in OpenAI's SSE stream.
type OpenAIStreamResponse struct {
	ID      string               `json:"id"`
	Object  string               `json:"object"`
	Created int64                `json:"created"`
	Model   string               `json:"model"`
	Choices []OpenAIStreamChoice `json:"choices"`
	Usage   *OpenAIUsage         `json:"usage,omitempty"`
}

// OpenAIStreamChoice represents a streaming choice in OpenAI format.
type OpenAIStreamChoice struct {
	Index        int         `json:"index"`
	Delta        OpenAIDelta `json:"delta"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

// OpenAIDelta represents incremental content in OpenAI format.
type OpenAIDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// Model tier mapping
//
// The fallback keeps the same canonical short names as the primary
// provider; anything else passes through untouched, since the canonical
// request shape is already OpenAI-compatible.
const (
	// DefaultModel is the efficient-tier OpenAI model.
	DefaultModel = "gpt-4o-mini"

	// LargeModel is the large-tier OpenAI model.
	LargeModel = "gpt-4o"
)

var modelAliases = map[string]string{
	"efficient": DefaultModel,
	"large":     LargeModel,
}

// ResolveModel maps a canonical short model name to an OpenAI model ID.
func ResolveModel(name string) string {
	if name == "" {
		return DefaultModel
	}
	if resolved, ok := modelAliases[name]; ok {
		return resolved
	}
	return name
}

// Transformation functions

// transformRequest transforms a provider-agnostic request to OpenAI format.
// The canonical shape mirrors OpenAI's, so this is a near passthrough.
func transformRequest(req *providers.CompletionRequest) *OpenAIRequest {
	openaiReq := &OpenAIRequest{
		Model:     ResolveModel(req.Model),
		Messages:  make([]OpenAIMessage, 0, len(req.Messages)),
		MaxTokens: req.MaxTokens,
		Stream:    req.Stream,
	}

	for _, msg := range req.Messages {
		openaiReq.Messages = append(openaiReq.Messages, OpenAIMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	return openaiReq
}

// transformResponse transforms an OpenAI response to provider-agnostic format.
func transformResponse(resp *OpenAIResponse) *providers.CompletionResponse {
	result := &providers.CompletionResponse{
		ID:      resp.ID,
		Model:   resp.Model,
		Created: resp.Created,
		Usage: providers.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	if len(resp.Choices) > 0 {
		result.Content = resp.Choices[0].Message.Content
		result.FinishReason = resp.Choices[0].FinishReason
	}

	return result
}

// transformStreamChunk transforms an OpenAI stream chunk to provider-agnostic format.
// Chunks with no content and no finish reason return nil.
func transformStreamChunk(resp *OpenAIStreamResponse) *providers.StreamChunk {
	if len(resp.Choices) == 0 {
		return nil
	}

	choice := resp.Choices[0]
	if choice.Delta.Content == "" && choice.FinishReason == "" {
		return nil
	}

	chunk := &providers.StreamChunk{
		ID:           resp.ID,
		Model:        resp.Model,
		Delta:        choice.Delta.Content,
		FinishReason: choice.FinishReason,
	}

	if resp.Usage != nil {
		chunk.Usage = &providers.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return chunk
}

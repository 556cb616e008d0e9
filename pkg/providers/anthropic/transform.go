package anthropic

import (
	"toolkit24/spark/pkg/providers"
)

// Anthropic API request/response types

// AnthropicRequest represents an Anthropic messages request.
type AnthropicRequest struct {
	Model       string             `json:"model"`
	Messages    []AnthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	MaxTokens   int                `json:"max_tokens"`
	Stream      bool               `json:"stream,omitempty"`
}

// AnthropicMessage represents a message in Anthropic format.
// Only user and assistant roles are valid here; the system turn travels
// in the request's top-level System field.
type AnthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ContentBlock represents a content block in Anthropic format.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// AnthropicResponse represents an Anthropic messages response.
type AnthropicResponse struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Role         string         `json:"role"`
	Content      []ContentBlock `json:"content"`
	Model        string         `json:"model"`
	StopReason   string         `json:"stop_reason"`
	StopSequence string         `json:"stop_sequence,omitempty"`
	Usage        AnthropicUsage `json:"usage"`
}

// AnthropicUsage represents token usage in Anthropic format.
type AnthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Anthropic streaming response types

// AnthropicStreamEvent represents an event in Anthropic's SSE stream.
type AnthropicStreamEvent struct {
	Type string `json:"type"`

	// For message_start event
	Message *AnthropicResponse `json:"message,omitempty"`

	// For content_block_delta / message_delta events
	Index int                `json:"index,omitempty"`
	Delta *ContentBlockDelta `json:"delta,omitempty"`
	Usage *AnthropicUsage    `json:"usage,omitempty"`
}

// ContentBlockDelta represents incremental content in Anthropic format.
// On message_delta events the StopReason field is populated instead of Text.
type ContentBlockDelta struct {
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
	StopReason string `json:"stop_reason,omitempty"`
}

// Model tier mapping
//
// The toolkit frontend asks for canonical short names; the table resolves
// them to concrete Anthropic model IDs. Unrecognized names fall back to
// the efficient tier.
const (
	// DefaultModel is the efficient-tier model used when the requested
	// name is unknown or empty.
	DefaultModel = "claude-3-5-haiku-20241022"

	// LargeModel is the large-tier model.
	LargeModel = "claude-3-5-sonnet-20241022"
)

var modelAliases = map[string]string{
	"efficient":   DefaultModel,
	"large":       LargeModel,
	"gpt-4o-mini": DefaultModel,
	"gpt-4o":      LargeModel,
}

// ResolveModel maps a canonical short model name to an Anthropic model ID.
// Names already carrying the claude- prefix pass through unchanged.
func ResolveModel(name string) string {
	if name == "" {
		return DefaultModel
	}
	if resolved, ok := modelAliases[name]; ok {
		return resolved
	}
	if len(name) >= 7 && name[:7] == "claude-" {
		return name
	}
	return DefaultModel
}

// Transformation functions

// transformRequest transforms a provider-agnostic request to Anthropic format.
//
// The first system-role message becomes the top-level system field; any
// later system messages are dropped. Roles other than assistant are
// coerced to user, since the Messages API supports only a two-party turn
// sequence.
func transformRequest(req *providers.CompletionRequest) *AnthropicRequest {
	anthropicReq := &AnthropicRequest{
		Model:     ResolveModel(req.Model),
		Messages:  make([]AnthropicMessage, 0, len(req.Messages)),
		MaxTokens: req.MaxTokens,
		Stream:    req.Stream,
	}

	// max_tokens is required by Anthropic
	if anthropicReq.MaxTokens == 0 {
		anthropicReq.MaxTokens = 4096
	}

	for _, msg := range req.Messages {
		if msg.Role == providers.RoleSystem {
			if anthropicReq.System == "" {
				anthropicReq.System = msg.Content
			}
			continue
		}

		role := msg.Role
		if role != providers.RoleAssistant {
			role = providers.RoleUser
		}

		anthropicReq.Messages = append(anthropicReq.Messages, AnthropicMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	return anthropicReq
}

// transformResponse transforms an Anthropic response to provider-agnostic format.
func transformResponse(resp *AnthropicResponse) *providers.CompletionResponse {
	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return &providers.CompletionResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      content,
		FinishReason: normalizeStopReason(resp.StopReason),
		Usage: providers.TokenUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}
}

// transformStreamChunk transforms an Anthropic stream event to provider-agnostic format.
// Events that carry no client-visible content return nil.
func transformStreamChunk(event *AnthropicStreamEvent, state *streamState) *providers.StreamChunk {
	switch event.Type {
	case "message_start":
		if event.Message != nil {
			state.id = event.Message.ID
			state.model = event.Message.Model
		}
		return nil

	case "content_block_delta":
		if event.Delta != nil && event.Delta.Text != "" {
			return &providers.StreamChunk{
				ID:    state.id,
				Model: state.model,
				Delta: event.Delta.Text,
			}
		}
		return nil

	case "message_delta":
		chunk := &providers.StreamChunk{
			ID:    state.id,
			Model: state.model,
		}
		if event.Delta != nil {
			chunk.FinishReason = normalizeStopReason(event.Delta.StopReason)
		}
		if event.Usage != nil {
			chunk.Usage = &providers.TokenUsage{
				PromptTokens:     event.Usage.InputTokens,
				CompletionTokens: event.Usage.OutputTokens,
				TotalTokens:      event.Usage.InputTokens + event.Usage.OutputTokens,
			}
		}
		return chunk

	default:
		// content_block_start, content_block_stop, message_stop, ping
		return nil
	}
}

// streamState tracks state across stream events.
type streamState struct {
	id    string
	model string
}

// normalizeStopReason normalizes Anthropic stop reasons to provider-agnostic values.
func normalizeStopReason(reason string) string {
	switch reason {
	case "end_turn", "stop_sequence":
		return providers.FinishReasonStop
	case "max_tokens":
		return providers.FinishReasonLength
	default:
		return reason
	}
}

package types

import "fmt"

// Request validation bounds.
const (
	// MaxMessages is the maximum number of messages per request.
	MaxMessages = 50

	// MaxMessageLength is the maximum content length of a single message
	// in characters.
	MaxMessageLength = 50000
)

// ChatCompletionRequest represents an OpenAI-compatible chat completion
// request. This is the canonical shape clients send regardless of which
// upstream provider ultimately serves the request.
type ChatCompletionRequest struct {
	// Model is the canonical model name ("efficient", "large", or a
	// provider-specific ID).
	Model string `json:"model,omitempty"`

	// Messages is the conversation history as a list of messages.
	Messages []Message `json:"messages"`

	// MaxTokens is the maximum number of tokens to generate.
	// Optional, defaults to provider-specific limits.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Stream enables server-sent events (SSE) streaming.
	// Optional, defaults to false.
	Stream bool `json:"stream,omitempty"`
}

// Message represents a single message in a conversation.
type Message struct {
	// Role is the author of the message ("system", "user", or "assistant").
	Role string `json:"role"`

	// Content is the text content of the message.
	Content string `json:"content"`
}

// Valid message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ValidationError describes a request field that failed validation.
type ValidationError struct {
	// Param is the name of the invalid field.
	Param string

	// Message describes what is invalid.
	Message string

	// Code is the machine-readable error code.
	Code string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request parameter %q: %s", e.Param, e.Message)
}

// Validate checks the request against the message bounds and role enum.
func (r *ChatCompletionRequest) Validate() error {
	if len(r.Messages) == 0 {
		return &ValidationError{
			Param:   "messages",
			Message: "at least one message is required",
			Code:    CodeMissingField,
		}
	}
	if len(r.Messages) > MaxMessages {
		return &ValidationError{
			Param:   "messages",
			Message: fmt.Sprintf("at most %d messages are allowed", MaxMessages),
			Code:    CodeInvalidValue,
		}
	}

	for i, msg := range r.Messages {
		param := fmt.Sprintf("messages[%d]", i)

		switch msg.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return &ValidationError{
				Param:   param + ".role",
				Message: fmt.Sprintf("role must be one of %q, %q, %q", RoleSystem, RoleUser, RoleAssistant),
				Code:    CodeInvalidValue,
			}
		}

		if msg.Content == "" {
			return &ValidationError{
				Param:   param + ".content",
				Message: "content must not be empty",
				Code:    CodeMissingField,
			}
		}
		if len(msg.Content) > MaxMessageLength {
			return &ValidationError{
				Param:   param + ".content",
				Message: fmt.Sprintf("content exceeds %d characters", MaxMessageLength),
				Code:    CodeInvalidValue,
			}
		}
	}

	if r.MaxTokens < 0 {
		return &ValidationError{
			Param:   "max_tokens",
			Message: "max_tokens must not be negative",
			Code:    CodeInvalidValue,
		}
	}

	return nil
}

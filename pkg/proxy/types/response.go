package types

// ChatCompletionResponse represents an OpenAI-compatible chat completion
// response.
type ChatCompletionResponse struct {
	// ID is a unique identifier for the completion.
	ID string `json:"id"`

	// Object is always "chat.completion".
	Object string `json:"object"`

	// Created is the Unix timestamp of when the completion was created.
	Created int64 `json:"created"`

	// Model is the model that served the completion.
	Model string `json:"model"`

	// Provider names the upstream that served the request
	// ("anthropic" or "openai").
	Provider string `json:"provider,omitempty"`

	// Choices contains the generated completions.
	Choices []Choice `json:"choices"`

	// Usage reports token consumption for the request.
	Usage Usage `json:"usage"`
}

// Choice represents a single generated completion.
type Choice struct {
	// Index is the position of this choice in the list.
	Index int `json:"index"`

	// Message is the generated message.
	Message Message `json:"message"`

	// FinishReason is why generation stopped ("stop" or "length").
	FinishReason string `json:"finish_reason"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// StreamRecord is one frame of the re-framed SSE stream sent to clients.
// Incremental frames carry Text; the final frame carries Done and the
// serving Provider instead.
type StreamRecord struct {
	// Text is the incremental content for this frame.
	Text string `json:"text,omitempty"`

	// Done marks the final frame of the stream.
	Done bool `json:"done,omitempty"`

	// Provider names the upstream that served the stream, set on the
	// final frame.
	Provider string `json:"provider,omitempty"`

	// Error carries a client-visible error message for mid-stream
	// failures.
	Error string `json:"error,omitempty"`
}

// KV response shapes.

// KVListResponse is returned by GET on the collection route.
type KVListResponse struct {
	Keys []string `json:"keys"`
}

// KVValueResponse is returned by GET on an item route.
type KVValueResponse struct {
	// Value is the raw stored JSON; null when absent (or [] for
	// list-named keys).
	Value interface{} `json:"value"`
}

// KVWriteResponse is returned by mutating KV operations.
type KVWriteResponse struct {
	OK      bool   `json:"ok"`
	Key     string `json:"key,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
	Cleared bool   `json:"cleared,omitempty"`
}

package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"toolkit24/spark/pkg/providers"
	"toolkit24/spark/pkg/proxy/types"
)

// FormatChatCompletionResponse converts a provider response to the
// OpenAI-compatible wire format. The requested model name is echoed back
// so clients see the name they asked for, not the resolved provider ID.
func FormatChatCompletionResponse(resp *providers.CompletionResponse, requestedModel, provider string) *types.ChatCompletionResponse {
	id := resp.ID
	if id == "" {
		id = "chatcmpl-" + uuid.NewString()
	}

	created := resp.Created
	if created == 0 {
		created = time.Now().Unix()
	}

	model := requestedModel
	if model == "" {
		model = resp.Model
	}

	finishReason := resp.FinishReason
	if finishReason == "" {
		finishReason = providers.FinishReasonStop
	}

	return &types.ChatCompletionResponse{
		ID:       id,
		Object:   "chat.completion",
		Created:  created,
		Model:    model,
		Provider: provider,
		Choices: []types.Choice{
			{
				Index: 0,
				Message: types.Message{
					Role:    types.RoleAssistant,
					Content: resp.Content,
				},
				FinishReason: finishReason,
			},
		},
		Usage: types.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
}

// WriteJSONResponse writes a JSON response with the given status code.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes an error response with the status code derived
// from the error type.
func WriteErrorResponse(w http.ResponseWriter, errResp *types.ErrorResponse) error {
	return WriteJSONResponse(w, errResp.Error.HTTPStatusCode(), errResp)
}

// SetSSEHeaders configures the response for server-sent events.
func SetSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

// WriteStreamRecord writes one re-framed stream record as an SSE data
// line and flushes it.
func WriteStreamRecord(w http.ResponseWriter, record *types.StreamRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal stream record: %w", err)
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write stream record: %w", err)
	}

	flush(w)
	return nil
}

// WriteStreamDone writes the final done record followed by the [DONE]
// sentinel.
func WriteStreamDone(w http.ResponseWriter, provider string) error {
	if err := WriteStreamRecord(w, &types.StreamRecord{Done: true, Provider: provider}); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "data: [DONE]\n\n"); err != nil {
		return fmt.Errorf("failed to write done sentinel: %w", err)
	}

	flush(w)
	return nil
}

// WriteStreamError writes a mid-stream error record. Headers have already
// been sent by this point, so the HTTP status cannot change.
func WriteStreamError(w http.ResponseWriter, message string) error {
	return WriteStreamRecord(w, &types.StreamRecord{Error: message})
}

func flush(w http.ResponseWriter) {
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

package anthropic

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"toolkit24/spark/pkg/providers"
)

// marshalRequest marshals the Anthropic request to JSON.
func marshalRequest(req *AnthropicRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &providers.ProviderError{
			Provider: "anthropic",
			Message:  "failed to marshal request",
			Cause:    err,
		}
	}
	return body, nil
}

// readStream reads the Anthropic SSE stream and sends chunks to the channel.
// The channel is closed when the stream ends or an error occurs.
func (p *Provider) readStream(ctx context.Context, resp *http.Response, chunks chan<- *providers.StreamChunk) {
	defer close(chunks)
	defer resp.Body.Close()

	state := &streamState{}
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := scanner.Text()

		// Anthropic interleaves "event:" and "data:" lines; the event type
		// is repeated inside the data payload, so only data lines matter.
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}

		var event AnthropicStreamEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			slog.Debug("skipping malformed stream event",
				"provider", "anthropic",
				"error", err,
			)
			continue
		}

		if event.Type == "error" {
			select {
			case chunks <- &providers.StreamChunk{
				ID:    state.id,
				Model: state.model,
				Error: &providers.StreamError{
					Provider: "anthropic",
					Message:  "upstream stream error",
				},
			}:
			case <-ctx.Done():
			}
			return
		}

		chunk := transformStreamChunk(&event, state)
		if chunk == nil {
			continue
		}

		select {
		case chunks <- chunk:
		case <-ctx.Done():
			return
		}

		if event.Type == "message_stop" {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		select {
		case chunks <- &providers.StreamChunk{
			ID:    state.id,
			Model: state.model,
			Error: &providers.StreamError{
				Provider: "anthropic",
				Message:  "stream read failed",
				Cause:    err,
			},
		}:
		case <-ctx.Done():
		}
	}
}

package openai

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"toolkit24/spark/pkg/providers"
)

// doneMarker is the sentinel OpenAI sends to terminate an SSE stream.
const doneMarker = "[DONE]"

// marshalRequest marshals the OpenAI request to JSON.
func marshalRequest(req *OpenAIRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &providers.ProviderError{
			Provider: "openai",
			Message:  "failed to marshal request",
			Cause:    err,
		}
	}
	return body, nil
}

// readStream reads the OpenAI SSE stream and sends chunks to the channel.
// The channel is closed when the stream ends or an error occurs.
func (p *Provider) readStream(ctx context.Context, resp *http.Response, chunks chan<- *providers.StreamChunk) {
	defer close(chunks)
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}

		if data == doneMarker {
			return
		}

		var streamResp OpenAIStreamResponse
		if err := json.Unmarshal([]byte(data), &streamResp); err != nil {
			slog.Debug("skipping malformed stream chunk",
				"provider", "openai",
				"error", err,
			)
			continue
		}

		chunk := transformStreamChunk(&streamResp)
		if chunk == nil {
			continue
		}

		select {
		case chunks <- chunk:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil {
		select {
		case chunks <- &providers.StreamChunk{
			Error: &providers.StreamError{
				Provider: "openai",
				Message:  "stream read failed",
				Cause:    err,
			},
		}:
		case <-ctx.Done():
		}
	}
}

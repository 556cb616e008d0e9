package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"toolkit24/spark/pkg/providers"
)

func testConfig(baseURL string) providers.ProviderConfig {
	return providers.ProviderConfig{
		Name:    "anthropic",
		BaseURL: baseURL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}
}

func TestNewProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewProvider(providers.ProviderConfig{Name: "anthropic"})
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if _, ok := err.(*providers.ConfigError); !ok {
		t.Errorf("expected ConfigError, got %T", err)
	}
}

func TestProvider_SendCompletion(t *testing.T) {
	var gotReq AnthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != MessagesEndpoint {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing x-api-key header")
		}
		if r.Header.Get("anthropic-version") != APIVersion {
			t.Errorf("missing anthropic-version header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		resp := AnthropicResponse{
			ID:         "msg_test",
			Model:      DefaultModel,
			Content:    []ContentBlock{{Type: "text", Text: "Hello!"}},
			StopReason: "end_turn",
			Usage:      AnthropicUsage{InputTokens: 12, OutputTokens: 4},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewProvider(testConfig(server.URL))
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	resp, err := provider.SendCompletion(context.Background(), &providers.CompletionRequest{
		Model: "efficient",
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: "Be brief."},
			{Role: providers.RoleUser, Content: "Hello"},
		},
	})
	if err != nil {
		t.Fatalf("SendCompletion failed: %v", err)
	}

	if resp.Content != "Hello!" {
		t.Errorf("expected content %q, got %q", "Hello!", resp.Content)
	}
	if resp.FinishReason != providers.FinishReasonStop {
		t.Errorf("expected finish reason stop, got %q", resp.FinishReason)
	}
	if gotReq.System != "Be brief." {
		t.Errorf("expected system extracted into request, got %q", gotReq.System)
	}
	if gotReq.Model != DefaultModel {
		t.Errorf("expected model resolved to %s, got %s", DefaultModel, gotReq.Model)
	}
	if gotReq.Stream {
		t.Error("expected stream=false on non-streaming request")
	}
}

func TestProvider_SendCompletion_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"type":"authentication_error"}}`)
	}))
	defer server.Close()

	provider, err := NewProvider(testConfig(server.URL))
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	_, err = provider.SendCompletion(context.Background(), &providers.CompletionRequest{
		Model:    "efficient",
		Messages: []providers.Message{{Role: providers.RoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected auth error")
	}
	if _, ok := err.(*providers.AuthError); !ok {
		t.Errorf("expected AuthError, got %T: %v", err, err)
	}
}

func TestProvider_SendCompletion_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	config := testConfig(server.URL)
	config.Timeout = 50 * time.Millisecond

	provider, err := NewProvider(config)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	_, err = provider.SendCompletion(context.Background(), &providers.CompletionRequest{
		Model:    "efficient",
		Messages: []providers.Message{{Role: providers.RoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if _, ok := err.(*providers.TimeoutError); !ok {
		t.Errorf("expected TimeoutError, got %T: %v", err, err)
	}
}

func TestProvider_StreamCompletion_CancelReleasesErrorSend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, `data: {"type":"error","error":{"type":"overloaded_error","message":"overloaded"}}`+"\n\n")
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	provider, err := NewProvider(testConfig(server.URL))
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chunks, err := provider.StreamCompletion(ctx, &providers.CompletionRequest{
		Model:    "efficient",
		Messages: []providers.Message{{Role: providers.RoleUser, Content: "hi"}},
		Stream:   true,
	})
	if err != nil {
		t.Fatalf("StreamCompletion failed: %v", err)
	}

	// Let the reader reach the pending error-chunk send, then cancel with
	// nobody receiving. The reader must abandon the send and close the
	// channel instead of blocking forever.
	time.Sleep(100 * time.Millisecond)
	cancel()
	time.Sleep(100 * time.Millisecond)

	select {
	case _, ok := <-chunks:
		if ok {
			t.Fatal("expected closed channel after cancellation, got a chunk")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stream channel did not close after cancellation")
	}
}

func TestProvider_StreamCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req AnthropicRequest
		json.NewDecoder(r.Body).Decode(&req)
		if !req.Stream {
			t.Error("expected stream=true on streaming request")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: message_start\n")
		fmt.Fprint(w, `data: {"type":"message_start","message":{"id":"msg_s","model":"claude-3-5-haiku-20241022"}}`+"\n\n")
		fmt.Fprint(w, `data: {"type":"content_block_delta","delta":{"type":"text_delta","text":"Hel"}}`+"\n\n")
		fmt.Fprint(w, `data: {"type":"content_block_delta","delta":{"type":"text_delta","text":"lo"}}`+"\n\n")
		fmt.Fprint(w, `data: {"type":"message_delta","delta":{"stop_reason":"end_turn"},"usage":{"input_tokens":3,"output_tokens":2}}`+"\n\n")
		fmt.Fprint(w, `data: {"type":"message_stop"}`+"\n\n")
	}))
	defer server.Close()

	provider, err := NewProvider(testConfig(server.URL))
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	chunks, err := provider.StreamCompletion(context.Background(), &providers.CompletionRequest{
		Model:    "efficient",
		Messages: []providers.Message{{Role: providers.RoleUser, Content: "hi"}},
		Stream:   true,
	})
	if err != nil {
		t.Fatalf("StreamCompletion failed: %v", err)
	}

	var text string
	var finishReason string
	for chunk := range chunks {
		if chunk.Error != nil {
			t.Fatalf("unexpected stream error: %v", chunk.Error)
		}
		text += chunk.Delta
		if chunk.FinishReason != "" {
			finishReason = chunk.FinishReason
		}
	}

	if text != "Hello" {
		t.Errorf("expected streamed text %q, got %q", "Hello", text)
	}
	if finishReason != providers.FinishReasonStop {
		t.Errorf("expected finish reason stop, got %q", finishReason)
	}
}

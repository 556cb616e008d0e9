//go:build integration

package test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"toolkit24/spark/pkg/config"
	"toolkit24/spark/pkg/kv"
	"toolkit24/spark/pkg/providers"
	"toolkit24/spark/pkg/proxy/types"
	"toolkit24/spark/pkg/server"
	"toolkit24/spark/pkg/telemetry/metrics"
)

// stubProvider serves canned completions without touching the network.
type stubProvider struct {
	name string
}

func (p *stubProvider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	return &providers.CompletionResponse{
		ID:           "msg_integration",
		Model:        req.Model,
		Content:      "stub response",
		FinishReason: providers.FinishReasonStop,
		Usage:        providers.TokenUsage{PromptTokens: 4, CompletionTokens: 2, TotalTokens: 6},
	}, nil
}

func (p *stubProvider) StreamCompletion(ctx context.Context, req *providers.CompletionRequest) (<-chan *providers.StreamChunk, error) {
	ch := make(chan *providers.StreamChunk, 3)
	ch <- &providers.StreamChunk{ID: "msg_integration", Delta: "stub "}
	ch <- &providers.StreamChunk{ID: "msg_integration", Delta: "stream"}
	ch <- &providers.StreamChunk{ID: "msg_integration", FinishReason: providers.FinishReasonStop}
	close(ch)
	return ch, nil
}

func (p *stubProvider) GetName() string                   { return p.name }
func (p *stubProvider) GetConfig() providers.ProviderConfig { return providers.ProviderConfig{Name: p.name} }
func (p *stubProvider) IsHealthy() bool                   { return true }
func (p *stubProvider) GetHealth() providers.ProviderHealth {
	return providers.ProviderHealth{IsHealthy: true}
}
func (p *stubProvider) Close() error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	srv := server.New(server.Options{
		Config:  cfg,
		Store:   kv.NewMemoryStore(),
		Primary: &stubProvider{name: "anthropic"},
		Metrics: metrics.NewCollector(nil),
		Version: "integration",
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestEndToEnd_ChatCompletion(t *testing.T) {
	ts := newTestServer(t)

	reqBody := types.ChatCompletionRequest{
		Model: "efficient",
		Messages: []types.Message{
			{Role: "user", Content: "Hello"},
		},
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.URL+"/ai", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected request ID header")
	}

	var completion types.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if completion.Provider != "anthropic" {
		t.Errorf("expected provider anthropic, got %q", completion.Provider)
	}
	if len(completion.Choices) != 1 || completion.Choices[0].Message.Content != "stub response" {
		t.Errorf("unexpected choices: %+v", completion.Choices)
	}
}

func TestEndToEnd_ChatStreaming(t *testing.T) {
	ts := newTestServer(t)

	body := `{"model":"efficient","stream":true,"messages":[{"role":"user","content":"Hello"}]}`
	resp, err := http.Post(ts.URL+"/ai", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected SSE content type, got %q", ct)
	}

	var text strings.Builder
	var sawDone, sawTerminator bool
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if payload == "[DONE]" {
			sawTerminator = true
			continue
		}
		var record types.StreamRecord
		if err := json.Unmarshal([]byte(payload), &record); err != nil {
			t.Fatalf("bad stream record %q: %v", payload, err)
		}
		text.WriteString(record.Text)
		if record.Done {
			sawDone = true
			if record.Provider != "anthropic" {
				t.Errorf("expected provider on final record, got %q", record.Provider)
			}
		}
	}

	if text.String() != "stub stream" {
		t.Errorf("expected concatenated deltas, got %q", text.String())
	}
	if !sawDone || !sawTerminator {
		t.Errorf("incomplete stream: done=%v terminator=%v", sawDone, sawTerminator)
	}
}

func TestEndToEnd_KVLifecycle(t *testing.T) {
	ts := newTestServer(t)
	client := ts.Client()

	// Write through the item route.
	req, _ := http.NewRequest("POST", ts.URL+"/kv/todo-items", strings.NewReader(`["milk","eggs"]`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set returned %d", resp.StatusCode)
	}

	// Read it back.
	resp, err = client.Get(ts.URL + "/kv/todo-items")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	var value types.KVValueResponse
	json.NewDecoder(resp.Body).Decode(&value)
	resp.Body.Close()
	items, ok := value.Value.([]interface{})
	if !ok || len(items) != 2 {
		t.Errorf("expected stored list round-tripped, got %#v", value.Value)
	}

	// List keys.
	resp, err = client.Get(ts.URL + "/kv")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var list types.KVListResponse
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list.Keys) != 1 || list.Keys[0] != "todo-items" {
		t.Errorf("unexpected keys: %v", list.Keys)
	}

	// Delete and verify the missing-list heuristic.
	req, _ = http.NewRequest("DELETE", ts.URL+"/kv/todo-items", nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	resp.Body.Close()

	resp, err = client.Get(ts.URL + "/kv/todo-items")
	if err != nil {
		t.Fatalf("get after delete failed: %v", err)
	}
	var after types.KVValueResponse
	json.NewDecoder(resp.Body).Decode(&after)
	resp.Body.Close()
	if _, ok := after.Value.([]interface{}); !ok {
		t.Errorf("expected [] for missing list-named key, got %#v", after.Value)
	}
}

func TestEndToEnd_RateLimitExceeded(t *testing.T) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.RateLimit.KV.MaxRequests = 2

	srv := server.New(server.Options{
		Config:  cfg,
		Store:   kv.NewMemoryStore(),
		Metrics: metrics.NewCollector(nil),
		Version: "integration",
	})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var last *http.Response
	for i := 0; i < 3; i++ {
		resp, err := http.Get(ts.URL + "/kv")
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		if last != nil {
			last.Body.Close()
		}
		last = resp
	}
	defer last.Body.Close()

	if last.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on third request, got %d", last.StatusCode)
	}
	if last.Header.Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	var errResp types.ErrorResponse
	if err := json.NewDecoder(last.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if errResp.Error.Type != types.ErrorTypeRateLimitExceeded {
		t.Errorf("expected rate_limit_exceeded, got %q", errResp.Error.Type)
	}
}

package proxy

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"toolkit24/spark/pkg/providers"
	"toolkit24/spark/pkg/proxy/types"
)

func TestFormatChatCompletionResponse(t *testing.T) {
	resp := &providers.CompletionResponse{
		ID:           "msg_123",
		Model:        "claude-3-5-haiku-20241022",
		Content:      "Hello!",
		FinishReason: providers.FinishReasonStop,
		Usage:        providers.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}

	formatted := FormatChatCompletionResponse(resp, "efficient", "anthropic")

	if formatted.Object != "chat.completion" {
		t.Errorf("expected object chat.completion, got %s", formatted.Object)
	}
	if formatted.Model != "efficient" {
		t.Errorf("expected requested model echoed, got %s", formatted.Model)
	}
	if formatted.Provider != "anthropic" {
		t.Errorf("expected provider anthropic, got %s", formatted.Provider)
	}
	if len(formatted.Choices) != 1 {
		t.Fatalf("expected 1 choice, got %d", len(formatted.Choices))
	}
	choice := formatted.Choices[0]
	if choice.Message.Role != types.RoleAssistant || choice.Message.Content != "Hello!" {
		t.Errorf("unexpected choice message: %+v", choice.Message)
	}
	if formatted.Created == 0 {
		t.Error("expected created timestamp to be set")
	}
}

func TestFormatChatCompletionResponse_GeneratesID(t *testing.T) {
	formatted := FormatChatCompletionResponse(&providers.CompletionResponse{}, "efficient", "openai")
	if !strings.HasPrefix(formatted.ID, "chatcmpl-") {
		t.Errorf("expected generated chatcmpl ID, got %q", formatted.ID)
	}
	if formatted.Choices[0].FinishReason != providers.FinishReasonStop {
		t.Errorf("expected default finish reason stop, got %q", formatted.Choices[0].FinishReason)
	}
}

func TestWriteStreamRecord(t *testing.T) {
	w := httptest.NewRecorder()
	SetSSEHeaders(w)

	if err := WriteStreamRecord(w, &types.StreamRecord{Text: "chunk"}); err != nil {
		t.Fatalf("WriteStreamRecord failed: %v", err)
	}

	body := w.Body.String()
	if !strings.HasPrefix(body, "data: ") {
		t.Errorf("expected SSE data framing, got %q", body)
	}

	var record types.StreamRecord
	payload := strings.TrimSpace(strings.TrimPrefix(body, "data: "))
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		t.Fatalf("stream record is not valid JSON: %v", err)
	}
	if record.Text != "chunk" {
		t.Errorf("expected text %q, got %q", "chunk", record.Text)
	}
	if w.Header().Get("Content-Type") != "text/event-stream" {
		t.Errorf("expected SSE content type, got %q", w.Header().Get("Content-Type"))
	}
}

func TestWriteStreamDone(t *testing.T) {
	w := httptest.NewRecorder()

	if err := WriteStreamDone(w, "anthropic"); err != nil {
		t.Fatalf("WriteStreamDone failed: %v", err)
	}

	body := w.Body.String()
	lines := strings.Split(strings.TrimSpace(body), "\n\n")
	if len(lines) != 2 {
		t.Fatalf("expected done record plus sentinel, got %d frames: %q", len(lines), body)
	}

	var record types.StreamRecord
	payload := strings.TrimPrefix(lines[0], "data: ")
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		t.Fatalf("done record is not valid JSON: %v", err)
	}
	if !record.Done || record.Provider != "anthropic" {
		t.Errorf("unexpected done record: %+v", record)
	}

	if lines[1] != "data: [DONE]" {
		t.Errorf("expected [DONE] sentinel, got %q", lines[1])
	}
}

func TestWriteErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()

	errResp := types.NewRateLimitError("Too many requests", 30)
	if err := WriteErrorResponse(w, errResp); err != nil {
		t.Fatalf("WriteErrorResponse failed: %v", err)
	}

	if w.Code != 429 {
		t.Errorf("expected status 429, got %d", w.Code)
	}

	var decoded types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if decoded.RetryAfter != 30 {
		t.Errorf("expected retryAfter 30, got %d", decoded.RetryAfter)
	}
}

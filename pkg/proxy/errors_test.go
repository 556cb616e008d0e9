package proxy

import (
	"errors"
	"strings"
	"testing"
	"time"

	"toolkit24/spark/pkg/providers"
	"toolkit24/spark/pkg/proxy/types"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "request validation",
			err:        &RequestError{Message: "bad", Type: types.ErrorTypeInvalidRequest, Code: types.CodeInvalidValue},
			wantStatus: 400,
			wantType:   types.ErrorTypeInvalidRequest,
		},
		{
			name:       "provider timeout maps to 408",
			err:        &providers.TimeoutError{Provider: "anthropic", Timeout: 30 * time.Second},
			wantStatus: 408,
			wantType:   types.ErrorTypeRequestTimeout,
		},
		{
			name:       "missing config maps to 500",
			err:        &providers.ConfigError{Provider: "proxy", Field: "api_key", Message: "no key"},
			wantStatus: 500,
			wantType:   types.ErrorTypeServerError,
		},
		{
			name:       "upstream auth failure maps to 502",
			err:        &providers.AuthError{Provider: "openai", Message: "bad key"},
			wantStatus: 502,
			wantType:   types.ErrorTypeBadGateway,
		},
		{
			name:       "upstream rate limit maps to 502",
			err:        &providers.RateLimitError{Provider: "anthropic"},
			wantStatus: 502,
			wantType:   types.ErrorTypeBadGateway,
		},
		{
			name:       "upstream 5xx maps to 502",
			err:        &providers.ProviderError{Provider: "anthropic", StatusCode: 503, Message: "overloaded"},
			wantStatus: 502,
			wantType:   types.ErrorTypeBadGateway,
		},
		{
			name:       "upstream 400 maps to 400",
			err:        &providers.ProviderError{Provider: "anthropic", StatusCode: 400, Message: "bad request"},
			wantStatus: 400,
			wantType:   types.ErrorTypeInvalidRequest,
		},
		{
			name:       "parse error maps to 502",
			err:        &providers.ParseError{Provider: "openai", Cause: errors.New("bad json")},
			wantStatus: 502,
			wantType:   types.ErrorTypeBadGateway,
		},
		{
			name:       "unknown error maps to 500",
			err:        errors.New("something odd"),
			wantStatus: 500,
			wantType:   types.ErrorTypeServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := HandleError(tt.err)
			if resp.Error.Type != tt.wantType {
				t.Errorf("expected type %q, got %q", tt.wantType, resp.Error.Type)
			}
			if got := resp.Error.HTTPStatusCode(); got != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, got)
			}
		})
	}
}

func TestMapError_DetailModes(t *testing.T) {
	upstream := &providers.ProviderError{Provider: "anthropic", StatusCode: 503, Message: "overloaded"}

	prod := MapError(upstream, false)
	if strings.Contains(prod.Error.Message, "overloaded") {
		t.Errorf("production message carries upstream detail: %q", prod.Error.Message)
	}

	dev := MapError(upstream, true)
	if !strings.Contains(dev.Error.Message, "overloaded") {
		t.Errorf("development message missing upstream detail: %q", dev.Error.Message)
	}
	if dev.Error.HTTPStatusCode() != 502 {
		t.Errorf("detail must not change the status, got %d", dev.Error.HTTPStatusCode())
	}

	// Validation errors already speak to the client; no annotation.
	reqErr := &RequestError{Message: "model is required", Type: types.ErrorTypeInvalidRequest}
	if got := MapError(reqErr, true).Error.Message; got != "model is required" {
		t.Errorf("request error message changed in development mode: %q", got)
	}
}

func TestHandleError_DoesNotLeakInternals(t *testing.T) {
	resp := HandleError(&providers.AuthError{Provider: "anthropic", Message: "api key sk-secret rejected"})
	if resp.Error.Message == "" {
		t.Fatal("expected a message")
	}
	if strings.Contains(resp.Error.Message, "sk-secret") {
		t.Errorf("upstream error body leaked into client message: %q", resp.Error.Message)
	}
}

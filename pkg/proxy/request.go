package proxy

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"toolkit24/spark/pkg/proxy/types"
)

// MaxRequestBodySize bounds chat completion request bodies (10MB).
const MaxRequestBodySize = 10 * 1024 * 1024

// RequestError wraps a request parsing or validation failure together
// with the error response it should produce.
type RequestError struct {
	Message string
	Type    string
	Param   string
	Code    string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("request error: %s", e.Message)
}

// ToErrorResponse converts the RequestError to a wire error response.
func (e *RequestError) ToErrorResponse() *types.ErrorResponse {
	return types.NewErrorResponse(e.Message, e.Type, e.Param, e.Code)
}

// ParseChatCompletionRequest parses and validates a chat completion
// request body. Returns a RequestError for malformed or invalid input.
func ParseChatCompletionRequest(r *http.Request) (*types.ChatCompletionRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err != nil {
		return nil, &RequestError{
			Message: "Failed to read request body",
			Type:    types.ErrorTypeInvalidRequest,
			Code:    types.CodeInvalidJSON,
		}
	}
	if len(body) > MaxRequestBodySize {
		return nil, &RequestError{
			Message: "Request body too large",
			Type:    types.ErrorTypeRequestTooLarge,
			Code:    types.CodeRequestTooLarge,
		}
	}

	var req types.ChatCompletionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &RequestError{
			Message: fmt.Sprintf("Invalid JSON in request body: %v", err),
			Type:    types.ErrorTypeInvalidRequest,
			Code:    types.CodeInvalidJSON,
		}
	}

	if err := req.Validate(); err != nil {
		verr, ok := err.(*types.ValidationError)
		if !ok {
			return nil, &RequestError{
				Message: err.Error(),
				Type:    types.ErrorTypeInvalidRequest,
				Code:    types.CodeInvalidValue,
			}
		}
		return nil, &RequestError{
			Message: verr.Message,
			Type:    types.ErrorTypeInvalidRequest,
			Param:   verr.Param,
			Code:    verr.Code,
		}
	}

	return &req, nil
}

// ExtractClientIdentifier derives the rate-limiting identity for a request.
//
// Order of preference: first address in X-Forwarded-For, then X-Real-IP,
// then the remote address host, then the User-Agent, then "unknown".
func ExtractClientIdentifier(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	if r.RemoteAddr != "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}

	if ua := r.Header.Get("User-Agent"); ua != "" {
		return ua
	}

	return "unknown"
}

package proxy

import (
	"errors"
	"fmt"

	"toolkit24/spark/pkg/providers"
	"toolkit24/spark/pkg/proxy/types"
)

// HandleError converts provider and request errors to wire error
// responses with the appropriate HTTP status:
//
//   - request validation failures -> 400/413
//   - upstream timeouts           -> 408
//   - missing provider config     -> 500
//   - upstream/provider failures  -> 502
//
// Messages are sanitized for production. Development deployments use
// MapError with includeDetail to surface the underlying error text.
func HandleError(err error) *types.ErrorResponse {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.ToErrorResponse()
	}

	var validationErr *providers.ValidationError
	if errors.As(err, &validationErr) {
		return types.NewInvalidRequestError(
			validationErr.Message,
			validationErr.Field,
			types.CodeInvalidValue,
		)
	}

	var timeoutErr *providers.TimeoutError
	if errors.As(err, &timeoutErr) {
		return types.NewRequestTimeoutError(
			fmt.Sprintf("The AI provider did not respond within %s.", timeoutErr.Timeout),
		)
	}

	var configErr *providers.ConfigError
	if errors.As(err, &configErr) {
		return types.NewErrorResponse(
			"AI provider is not configured. Set an API key for Anthropic or OpenAI.",
			types.ErrorTypeServerError,
			"",
			types.CodeProviderNotConfigured,
		)
	}

	var authErr *providers.AuthError
	if errors.As(err, &authErr) {
		// An upstream credential rejection is a deployment problem, not
		// something the caller can fix with a different request.
		return types.NewBadGatewayError(
			fmt.Sprintf("Provider %q rejected the configured credentials.", authErr.Provider),
		)
	}

	var rateLimitErr *providers.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return types.NewBadGatewayError(
			fmt.Sprintf("Provider %q is rate limiting requests.", rateLimitErr.Provider),
		)
	}

	var parseErr *providers.ParseError
	if errors.As(err, &parseErr) {
		return types.NewBadGatewayError(
			fmt.Sprintf("Provider %q returned an unreadable response.", parseErr.Provider),
		)
	}

	var streamErr *providers.StreamError
	if errors.As(err, &streamErr) {
		return types.NewBadGatewayError(
			fmt.Sprintf("Provider %q stream failed.", streamErr.Provider),
		)
	}

	var providerErr *providers.ProviderError
	if errors.As(err, &providerErr) {
		return handleProviderError(providerErr)
	}

	return types.NewServerError(
		"An internal error occurred. Please try again later.",
	)
}

// MapError converts err to a wire error response. With includeDetail set
// (development mode) the underlying error text is appended so failures
// can be diagnosed from the response alone. Request validation errors
// already carry a client-facing message and are never annotated.
func MapError(err error, includeDetail bool) *types.ErrorResponse {
	resp := HandleError(err)

	if includeDetail {
		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			resp.Error.Message = fmt.Sprintf("%s [detail: %v]", resp.Error.Message, err)
		}
	}

	return resp
}

// handleProviderError maps a generic provider error by upstream status.
func handleProviderError(err *providers.ProviderError) *types.ErrorResponse {
	switch {
	case err.StatusCode == 400:
		return types.NewInvalidRequestError(
			fmt.Sprintf("Provider %q rejected the request.", err.Provider),
			"",
			types.CodeProviderError,
		)
	default:
		return types.NewBadGatewayError(
			fmt.Sprintf("Provider %q returned an error.", err.Provider),
		)
	}
}

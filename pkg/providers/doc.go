// Package providers defines the provider-agnostic abstraction for upstream
// AI chat-completion services and the shared HTTP plumbing used by the
// concrete adapters.
//
// # Architecture
//
// The Provider interface is implemented by one adapter per upstream service:
//
//   - anthropic: the primary provider; translates between the canonical
//     messages shape and the Anthropic Messages API (separate top-level
//     system field, user/assistant turns only)
//   - openai: the fallback provider; the canonical shape is already
//     OpenAI-compatible, so requests pass through with minimal translation
//
// Both adapters embed HTTPProvider, which supplies connection pooling, the
// 30-second wall-clock timeout on every upstream call, typed error
// classification (AuthError, RateLimitError, TimeoutError, ...) and health
// tracking derived from request outcomes.
//
// # Error handling
//
// Adapters never return raw transport errors. Every failure is wrapped in
// one of the typed errors in errors.go so the proxy layer can map it to
// the correct HTTP status without string matching.
//
// # Streaming
//
// StreamCompletion returns a channel of StreamChunk values. The adapter
// reads the upstream SSE body with a bufio.Scanner, skips malformed or
// partial fragments, and closes the channel when the upstream stream ends.
// A mid-stream failure is delivered as a final chunk with Error set.
package providers

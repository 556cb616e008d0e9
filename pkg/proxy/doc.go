// Package proxy contains the request/response plumbing shared by the
// HTTP handlers: body parsing and validation, client identifier
// extraction for rate limiting, OpenAI-compatible response formatting,
// SSE stream re-framing, and the mapping from typed provider errors to
// wire error responses.
package proxy

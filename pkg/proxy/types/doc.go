// Package types defines the wire types of the HTTP API: the
// OpenAI-compatible chat completion request/response shapes, the KV
// response shapes, the re-framed stream record, and the error taxonomy
// every handler uses to report failures.
package types

// Package handlers implements the HTTP handlers for the toolkit API:
// the chat completion proxy (/ai), the key-value store (/kv, /kv/{key}),
// and the health endpoints (/healthz, /ready).
package handlers

// Package middleware provides the HTTP middleware chain: panic recovery,
// request ID tagging, structured request logging with metrics, permissive
// CORS, per-class rate limiting, and request deadlines.
package middleware

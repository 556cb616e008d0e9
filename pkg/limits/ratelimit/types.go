package ratelimit

import "time"

// Config configures a fixed-window rate limiter.
type Config struct {
	// Window is the duration of the fixed window.
	Window time.Duration

	// MaxRequests is the maximum number of requests allowed per window.
	MaxRequests int
}

// DefaultConfig returns the default rate limit configuration:
// 100 requests per minute.
func DefaultConfig() Config {
	return Config{
		Window:      time.Minute,
		MaxRequests: 100,
	}
}

// Result reports the outcome of a rate limit check.
//
// The limiter signals through this single result shape; callers decide
// how to surface a rejection (headers, status code, response body).
type Result struct {
	// Allowed indicates whether the request may proceed.
	Allowed bool

	// Limit is the configured maximum requests per window.
	Limit int

	// Remaining is the number of requests left in the current window.
	Remaining int

	// Reset is when the current window expires.
	Reset time.Time

	// RetryAfter is how long to wait before retrying. Zero when allowed.
	RetryAfter time.Duration
}

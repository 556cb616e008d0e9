// Package ratelimit implements keyed fixed-window rate limiting.
//
// Each client identifier gets an independent fixed window; the window
// opens on the first request and every request strictly after the reset
// instant opens a new one. Checks return a Result value rather than an
// error, carrying everything the HTTP layer needs for the
// X-RateLimit-* headers and Retry-After.
//
// A cron-driven Sweeper prunes expired entries so idle identifiers do
// not accumulate.
package ratelimit

package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds a request's context with a deadline. Handlers that
// honor their context stop when the deadline passes.
//
// Not applied to streaming routes: an SSE relay may legitimately outlive
// a short request deadline, and the provider client carries its own
// upstream timeout.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

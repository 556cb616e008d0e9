package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"toolkit24/spark/pkg/limits/ratelimit"
	"toolkit24/spark/pkg/proxy"
	"toolkit24/spark/pkg/proxy/types"
	"toolkit24/spark/pkg/telemetry/metrics"
)

// RateLimit enforces a per-client fixed-window limit in front of a route
// class. Every response carries the X-RateLimit-* headers; rejections get
// 429 with a Retry-After header and a retryAfter field in the body.
//
// class names the limiter for metrics ("kv" or "ai"); collector may be nil.
func RateLimit(limiter *ratelimit.FixedWindowLimiter, class string, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier := proxy.ExtractClientIdentifier(r)
			result := limiter.Check(identifier)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.Reset.Unix(), 10))

			if !result.Allowed {
				if collector != nil {
					collector.RecordRateLimitRejection(class)
				}

				retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				proxy.WriteErrorResponse(w, types.NewRateLimitError(
					fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", retryAfter),
					retryAfter,
				))
				return
			}

			ctx := context.WithValue(r.Context(), ClientIDKey, identifier)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientID extracts the rate-limiting client identifier from the context.
func GetClientID(ctx context.Context) string {
	if clientID, ok := ctx.Value(ClientIDKey).(string); ok {
		return clientID
	}
	return ""
}

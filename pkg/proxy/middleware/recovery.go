package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"toolkit24/spark/pkg/proxy"
	"toolkit24/spark/pkg/proxy/types"
)

// Recovery converts handler panics into 500 responses instead of letting
// them kill the connection. The stack trace is logged, never sent to the
// client.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("handler panic",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", GetRequestID(r.Context()),
					"stack", string(debug.Stack()),
				)

				proxy.WriteErrorResponse(w, types.NewServerError(
					"An internal error occurred. Please try again later.",
				))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

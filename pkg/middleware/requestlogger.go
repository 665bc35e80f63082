package middleware

import (
	"log/slog"
	"net/http"

	"github.com/DannyJSullivan/card-inventory-api/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context carrying
// correlation_id, trace_id and span_id. Mount it after RequestLogging and
// Tracing. Auth later adds the username to the same logger.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if subject := SubjectFromContext(ctx); subject != "" {
				ctx = logger.WithUsername(ctx, subject)
			}
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

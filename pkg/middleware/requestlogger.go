package middleware

import (
	"log/slog"
	"net/http"

	"github.com/doltnamn-se/doltnamn/pkg/logger"
)

// RequestLogger stores a logger carrying correlation_id, customer_id,
// trace_id and span_id in the request context (see logger.FromContext).
// Mount it after Auth so the customer is known.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if id := UserIDFromContext(ctx); id != "" {
				ctx = logger.WithCustomerID(ctx, id)
			}
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

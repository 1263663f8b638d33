// Package request provides the base HTTP middleware: request correlation IDs
// and a request-scoped timestamp captured once at the edge.
package request

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"sovmint/pkg/requestcontext"
)

// HeaderRequestID is honored when the caller supplies its own correlation ID.
const HeaderRequestID = "X-Request-ID"

// WithRequestID assigns (or propagates) a correlation ID for each request.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithRequestTime pins one timestamp for the whole request so every store
// and TTL check inside a settlement transition sees the same clock.
func WithRequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID is a convenience re-export used by middleware that only has
// this package imported.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}

// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Context keys and getter/setter functions live here so values set by
// middleware can be consumed by services without those services importing
// net/http. Stores and services never call time.Now() directly; they read
// the request-scoped time via Now(ctx) so tests can pin the clock.
package requestcontext

import (
	"context"
	"time"

	id "sovmint/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	requesterIDKey struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyRequesterID = requesterIDKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// RequesterID retrieves the authenticated requester from the context.
// Returns the zero value if not set.
func RequesterID(ctx context.Context) id.RequesterID {
	if r, ok := ctx.Value(ContextKeyRequesterID).(id.RequesterID); ok {
		return r
	}
	return id.RequesterID{}
}

// WithRequesterID injects a requester ID into the context.
func WithRequesterID(ctx context.Context, requester id.RequesterID) context.Context {
	return context.WithValue(ctx, ContextKeyRequesterID, requester)
}

// RequestID retrieves the request correlation ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request correlation ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() for non-HTTP contexts (workers, tests that don't
// pin the clock).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Used by the request-time
// middleware and by service tests that need a deterministic clock.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

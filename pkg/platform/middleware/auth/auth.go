// Package auth authenticates settlement requesters from bearer tokens.
// Ledger account addressing and signature verification are out of scope;
// the token's subject claim is taken as the requester identity.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	id "sovmint/pkg/domain"
	dErrors "sovmint/pkg/domain-errors"
	"sovmint/pkg/platform/httputil"
	request "sovmint/pkg/platform/middleware/request"
	"sovmint/pkg/requestcontext"
)

// RequireRequester validates the Authorization bearer token and injects the
// requester ID into the request context. Requests without a valid subject
// are rejected before any service code runs.
func RequireRequester(signingKey []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := request.GetRequestID(ctx)

			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" || raw == r.Header.Get("Authorization") {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "bearer token required"))
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return signingKey, nil
			})
			if err != nil || !token.Valid {
				logger.WarnContext(ctx, "token validation failed",
					"request_id", requestID,
					"error", err,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
				return
			}

			sub, err := claims.GetSubject()
			if err != nil || sub == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "token subject required"))
				return
			}
			requester, err := id.ParseRequesterID(sub)
			if err != nil {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "token subject is not a requester id"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithRequesterID(ctx, requester)))
		})
	}
}

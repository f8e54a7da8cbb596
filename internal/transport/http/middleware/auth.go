package middleware

import (
	"context"
	"net/http"

	jwtinfra "github.com/propertyhub/api/internal/infrastructure/jwt"
)

type contextKey string

const ClaimsKey contextKey = "claims"

// AuthCookieName is the session cookie carrying the signed token.
const AuthCookieName = "auth-token"

// Auth returns middleware that validates the session cookie and injects claims
// into context. Every failure mode — missing cookie, malformed token, bad
// signature, expired — yields the same 401 body so callers can't probe which
// check failed.
func Auth(provider *jwtinfra.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(AuthCookieName)
			if err != nil || cookie.Value == "" {
				writeJSONError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			claims, err := provider.Verify(cookie.Value)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts session claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*jwtinfra.Claims)
	return c, ok
}

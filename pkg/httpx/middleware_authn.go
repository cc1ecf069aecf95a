package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/doorman/pkg/jwtx"
	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

// AccessCookie is the cookie carrying the access token for browser clients.
const AccessCookie = "accessToken"

// AccessVerifier validates a raw access token and returns its claims.
type AccessVerifier func(token string) (jwtx.AccessClaims, error)

// AuthnMiddleware authenticates requests by access token, taken from the
// Authorization header (Bearer scheme) or the access cookie. On success the
// user and session ids are injected into the request context.
func AuthnMiddleware(verify AccessVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := bearerToken(r)
			if raw == "" {
				writeBearerError(w, "missing access token")
				return
			}

			claims, err := verify(raw)
			if err != nil {
				log.Warn("access token verification failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, CtxKeySessionID, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from the Authorization header, falling back
// to the access cookie.
func bearerToken(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
	}
	if c, err := r.Cookie(AccessCookie); err == nil {
		return c.Value
	}
	return ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "ACCESS_UNAUTHORIZED", desc)
}

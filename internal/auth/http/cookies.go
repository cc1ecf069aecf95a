package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/doorman/pkg/httpx"
)

// RefreshCookie carries the refresh token. Its path is scoped to the refresh
// endpoint so the token is never sent anywhere else.
const (
	RefreshCookie     = "refreshToken"
	refreshCookiePath = "/v1/auth/refresh"
)

// cookieWriter sets and clears the auth cookies. Secure is off only for
// local development over plain HTTP.
type cookieWriter struct {
	secure bool
}

// setAccess writes the access-token cookie for browser clients that prefer
// cookies over the Authorization header.
func (c cookieWriter) setAccess(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.AccessCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// setRefresh writes the refresh-token cookie, scoped to the refresh endpoint.
func (c cookieWriter) setRefresh(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clear expires both cookies (logout).
func (c cookieWriter) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.AccessCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

package http

import (
	"net/http"

	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
)

type RefreshHandler struct {
	AuthService *service.AuthService
	Cookies     cookieWriter
}

// ServeHTTP exchanges the refresh cookie for a new access token. Inside the
// rolling renewal window the session is extended and the refresh cookie is
// replaced as well.
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshCookie)
	if err != nil || cookie.Value == "" {
		httpx.WriteError(w, http.StatusUnauthorized, authsdk.ErrorCodeAccessUnauthorized,
			"missing refresh token")
		return
	}

	result, err := h.AuthService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.setAccess(w, result.AccessToken, h.AuthService.Tokens.AccessTTL)
	if result.RefreshToken != "" {
		h.Cookies.setRefresh(w, result.RefreshToken, result.Session.ExpiresAt)
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.RefreshResponse{AccessToken: result.AccessToken})
}

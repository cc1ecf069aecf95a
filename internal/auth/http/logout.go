package http

import (
	"net/http"

	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
)

type LogoutHandler struct {
	AuthService *service.AuthService
	Cookies     cookieWriter
}

// ServeHTTP deletes the caller's session and clears the auth cookies. The
// refresh token dies with the session; outstanding access tokens lapse at
// their expiry.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := httpx.SessionIDFromContext(r.Context())

	if err := h.AuthService.Logout(r.Context(), sessionID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.clear(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.StatusResponse{Status: "ok"})
}

package http

import (
	"net/http"

	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
)

type LoginHandler struct {
	AuthService *service.AuthService
	Cookies     cookieWriter
}

// ServeHTTP authenticates with email and password. MFA-enabled accounts get
// a challenge response with no tokens; everyone else gets a session with
// the token pair in both the body and cookies.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeValidationError(w, "email and password are required")
		return
	}

	result, err := h.AuthService.Login(r.Context(), req.Email, req.Password, r.UserAgent())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if result.MFARequired {
		httpx.WriteJSON(w, http.StatusOK, authsdk.AuthResponse{
			MFARequired: true,
			User:        toUser(result.User),
		})
		return
	}

	h.Cookies.setAccess(w, result.AccessToken, h.AuthService.Tokens.AccessTTL)
	h.Cookies.setRefresh(w, result.RefreshToken, result.Session.ExpiresAt)

	httpx.WriteJSON(w, http.StatusOK, authsdk.AuthResponse{
		AccessToken: result.AccessToken,
		User:        toUser(result.User),
	})
}

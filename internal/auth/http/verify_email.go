package http

import (
	"net/http"

	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
)

type VerifyEmailHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP confirms an email address with the code from the verification
// email. The code is single use.
func (h *VerifyEmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.VerifyEmailRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Code == "" {
		writeValidationError(w, "code is required")
		return
	}

	user, err := h.AuthService.VerifyEmail(r.Context(), req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.AuthResponse{User: toUser(user)})
}

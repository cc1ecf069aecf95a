package http

import (
	"net/http"

	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
)

type PasswordHandler struct {
	AuthService *service.AuthService
}

// HandleForgot starts the password-reset flow: a reset code is generated and
// emailed. Issuance is rate limited per account on top of the IP limit.
func (h *PasswordHandler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ForgotPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		writeValidationError(w, "email is required")
		return
	}

	if err := h.AuthService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.StatusResponse{Status: "ok"})
}

// HandleReset sets a new password using the code from the reset email and
// revokes every existing session for the account.
func (h *PasswordHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Code == "" {
		writeValidationError(w, "code is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeValidationError(w, "password must be at least 8 characters")
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), req.Password, req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.StatusResponse{Status: "ok"})
}

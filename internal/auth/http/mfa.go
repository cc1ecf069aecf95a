package http

import (
	"net/http"

	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
)

type MFAHandler struct {
	AuthService *service.AuthService
	MFAService  *service.MFAService
	Cookies     cookieWriter
}

// HandleSetup starts TOTP enrollment for the authenticated user. The secret
// is persisted immediately, but MFA stays off until HandleVerify confirms
// the user's authenticator produces valid codes.
func (h *MFAHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, authsdk.ErrorCodeAccessUnauthorized,
			"authentication required")
		return
	}

	setup, err := h.MFAService.GenerateSetup(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MFASetupResponse{
		Secret:          setup.Secret,
		ProvisioningURI: setup.ProvisioningURI,
	})
}

// HandleVerify confirms enrollment with a code from the authenticator app
// and switches MFA on.
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, authsdk.ErrorCodeAccessUnauthorized,
			"authentication required")
		return
	}

	var req authsdk.MFACodeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Code == "" {
		writeValidationError(w, "code is required")
		return
	}

	if err := h.MFAService.ConfirmSetup(r.Context(), userID, req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.StatusResponse{Status: "ok"})
}

// HandleRevoke disables MFA for the authenticated user. Revoking when MFA
// was never enabled succeeds and reports revoked=false.
func (h *MFAHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, authsdk.ErrorCodeAccessUnauthorized,
			"authentication required")
		return
	}

	revoked, err := h.MFAService.Revoke(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MFARevokeResponse{Revoked: revoked})
}

// HandleLogin completes a password or magic-link login that was answered
// with an MFA challenge.
func (h *MFAHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.MFALoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Code == "" {
		writeValidationError(w, "email and code are required")
		return
	}

	result, err := h.AuthService.VerifyMFAForLogin(r.Context(), req.Code, req.Email, r.UserAgent())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.setAccess(w, result.AccessToken, h.AuthService.Tokens.AccessTTL)
	h.Cookies.setRefresh(w, result.RefreshToken, result.Session.ExpiresAt)

	httpx.WriteJSON(w, http.StatusOK, authsdk.AuthResponse{
		AccessToken: result.AccessToken,
		User:        toUser(result.User),
	})
}

package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
)

type MagicLinkHandler struct {
	AuthService *service.AuthService
	Cookies     cookieWriter

	// AppOrigin is the only permitted redirect target. The callback refuses
	// to forward a browser anywhere else.
	AppOrigin string
}

// HandleSend dispatches a passwordless sign-in email. The response reports
// delivery without failing the request on a mail provider outage.
func (h *MagicLinkHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req authsdk.MagicLinkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		writeValidationError(w, "email is required")
		return
	}

	receipt, err := h.AuthService.SendMagicLink(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MagicLinkResponse{
		Delivered: receipt.Delivered,
		MessageID: receipt.MessageID,
	})
}

// HandleCallback is where the emailed link lands. On success the auth
// cookies are set and the browser is redirected into the frontend; failures
// and MFA challenges are reported via query parameters on the redirect.
func (h *MagicLinkHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	target := h.redirectTarget(r.URL.Query().Get("redirect"))

	if code == "" {
		h.redirectError(w, r, target, "missing_code")
		return
	}

	result, err := h.AuthService.MagicAuthenticate(r.Context(), code, r.UserAgent())
	switch {
	case errors.Is(err, service.ErrInvalidCode):
		h.redirectError(w, r, target, "invalid_code")
		return
	case err != nil:
		writeServiceError(w, r, err)
		return
	}

	if result.MFARequired {
		u := target + "?mfa=required&email=" + url.QueryEscape(result.User.Email)
		http.Redirect(w, r, u, http.StatusFound)
		return
	}

	h.Cookies.setAccess(w, result.AccessToken, h.AuthService.Tokens.AccessTTL)
	h.Cookies.setRefresh(w, result.RefreshToken, result.Session.ExpiresAt)
	http.Redirect(w, r, target, http.StatusFound)
}

// redirectTarget clamps the redirect to the configured app origin, dropping
// anything else to prevent open redirects.
func (h *MagicLinkHandler) redirectTarget(requested string) string {
	if requested == "" || !strings.HasPrefix(requested, h.AppOrigin) {
		return h.AppOrigin
	}
	return requested
}

func (h *MagicLinkHandler) redirectError(w http.ResponseWriter, r *http.Request, target, code string) {
	http.Redirect(w, r, target+"?error="+url.QueryEscape(code), http.StatusFound)
}

package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
)

// minPasswordLength is the floor for new passwords; length is the only
// property we enforce.
const minPasswordLength = 8

type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP creates a new account and dispatches the verification email. No
// session is established: the account cannot log in until verified.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	switch {
	case strings.TrimSpace(req.Name) == "":
		writeValidationError(w, "name is required")
		return
	case !looksLikeEmail(req.Email):
		writeValidationError(w, "a valid email is required")
		return
	case len(req.Password) < minPasswordLength:
		writeValidationError(w, "password must be at least 8 characters")
		return
	}

	user, err := h.AuthService.Register(r.Context(), strings.TrimSpace(req.Name), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.AuthResponse{User: toUser(user)})
}

// looksLikeEmail is a sanity check, not RFC validation; the verification
// email is the real proof of ownership.
func looksLikeEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t")
}

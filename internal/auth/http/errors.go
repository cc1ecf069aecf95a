package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
	"github.com/aussiebroadwan/doorman/pkg/jwtx"
	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

// writeServiceError translates service sentinels into the wire error shape.
// Unknown errors are logged and surfaced as a generic 500 so internals never
// leak to clients.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusBadRequest, authsdk.ErrorCodeEmailAlreadyExists,
			"an account with this email already exists")

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserNotFound):
		// Wrong password and unknown account are indistinguishable on the wire.
		httpx.WriteError(w, http.StatusBadRequest, authsdk.ErrorCodeUserNotFound,
			"invalid email or password")

	case errors.Is(err, service.ErrEmailNotVerified):
		httpx.WriteError(w, http.StatusForbidden, authsdk.ErrorCodeVerificationError,
			"email address not verified; a new verification email has been sent")

	case errors.Is(err, service.ErrInvalidCode):
		httpx.WriteError(w, http.StatusBadRequest, authsdk.ErrorCodeTokenNotFound,
			"code is invalid or expired")

	case errors.Is(err, service.ErrTooManyAttempts):
		httpx.WriteError(w, http.StatusTooManyRequests, authsdk.ErrorCodeTooManyAttempts,
			"too many attempts; try again later")

	case errors.Is(err, service.ErrInvalidMFACode):
		httpx.WriteError(w, http.StatusBadRequest, authsdk.ErrorCodeValidationError,
			"invalid MFA code")

	case errors.Is(err, service.ErrMFANotEnabled),
		errors.Is(err, service.ErrMFAAlreadyEnabled):
		httpx.WriteError(w, http.StatusBadRequest, authsdk.ErrorCodeValidationError,
			err.Error())

	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, jwtx.ErrInvalidToken):
		httpx.WriteError(w, http.StatusUnauthorized, authsdk.ErrorCodeAccessUnauthorized,
			"authentication required")

	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, authsdk.ErrorCodeResourceNotFound,
			"resource not found")

	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err,
			"method", r.Method, "path", r.URL.Path)
		httpx.WriteError(w, http.StatusInternalServerError, authsdk.ErrorCodeInternalServerError,
			"internal server error")
	}
}

// decodeBody parses a JSON request body. A false return means the error
// response has already been written.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, authsdk.ErrorCodeBadRequest,
			"invalid JSON body")
		return false
	}
	return true
}

// writeValidationError reports a missing or malformed field.
func writeValidationError(w http.ResponseWriter, msg string) {
	httpx.WriteError(w, http.StatusBadRequest, authsdk.ErrorCodeValidationError, msg)
}

package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Stable machine-readable error codes returned by the API.
const (
	ErrorCodeEmailAlreadyExists  = "EMAIL_ALREADY_EXISTS"
	ErrorCodeUserNotFound        = "USER_NOT_FOUND"
	ErrorCodeTokenNotFound       = "TOKEN_NOT_FOUND"
	ErrorCodeTooManyAttempts     = "TOO_MANY_ATTEMPTS"
	ErrorCodeValidationError     = "VALIDATION_ERROR"
	ErrorCodeVerificationError   = "VERIFICATION_ERROR"
	ErrorCodeResourceNotFound    = "RESOURCE_NOT_FOUND"
	ErrorCodeBadRequest          = "BAD_REQUEST"
	ErrorCodeAccessUnauthorized  = "ACCESS_UNAUTHORIZED"
	ErrorCodeInternalServerError = "INTERNAL_SERVER_ERROR"
)

// APIError is a non-2xx response from the service. It implements the error
// interface; callers branch on ErrorCode, never on Message.
type APIError struct {
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"errorCode"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.ErrorCode, e.StatusCode, e.Message)
}

// parseAPIError builds an APIError from a response body. Bodies that are not
// the standard error shape still produce a usable error.
func parseAPIError(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.ErrorCode == "" {
		apiErr.ErrorCode = ErrorCodeInternalServerError
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

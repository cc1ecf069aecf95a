package service

import "errors"

// Expected failures are modelled as sentinel errors; the HTTP boundary maps
// them onto stable error codes. Anything else surfacing from a service is an
// internal fault.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email address not verified")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidCode        = errors.New("invalid or expired code")
	ErrTooManyAttempts    = errors.New("too many attempts")
	ErrMailDelivery       = errors.New("mail dispatch reported no delivery")
	ErrMFANotEnabled      = errors.New("MFA not enabled for this user")
	ErrMFAAlreadyEnabled  = errors.New("MFA already enabled for this user")
	ErrInvalidMFACode     = errors.New("invalid MFA code")
)

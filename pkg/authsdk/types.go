package authsdk

import "time"

// User is the public view of an account. Sensitive fields (password hash,
// TOTP secret) never leave the server.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	MFAEnabled    bool      `json:"mfaEnabled"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Session is the public view of a device session.
type SessionInfo struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"userAgent,omitempty"`
	Current   bool      `json:"current"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by every flow that may establish a session:
// login, MFA login, and the magic-link callback. When MFARequired is true
// no session exists yet and AccessToken is empty; the client must complete
// the MFA login flow.
type AuthResponse struct {
	AccessToken string `json:"accessToken,omitempty"`
	MFARequired bool   `json:"mfaRequired,omitempty"`
	User        *User  `json:"user,omitempty"`
}

// RefreshResponse carries the reissued access token. The refresh token, when
// rotated, travels only in the refresh cookie.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// VerifyEmailRequest submits an email-verification code.
type VerifyEmailRequest struct {
	Code string `json:"code"`
}

// ForgotPasswordRequest starts the password-reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest completes the password-reset flow.
type ResetPasswordRequest struct {
	Password string `json:"password"`
	Code     string `json:"code"`
}

// MagicLinkRequest asks for a passwordless sign-in email.
type MagicLinkRequest struct {
	Email string `json:"email"`
}

// MagicLinkResponse reports whether the sign-in email was dispatched.
type MagicLinkResponse struct {
	Delivered bool   `json:"delivered"`
	MessageID string `json:"messageId,omitempty"`
}

// MFASetupResponse carries the generated TOTP secret and the otpauth:// URI
// to render as a QR code. MFA is not active until the code is confirmed.
type MFASetupResponse struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioningUri"`
}

// MFACodeRequest submits a TOTP code (setup confirmation).
type MFACodeRequest struct {
	Code string `json:"code"`
}

// MFALoginRequest completes a login that was answered with an MFA challenge.
type MFALoginRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// MFARevokeResponse reports whether MFA was actually revoked; false means it
// was not enabled in the first place.
type MFARevokeResponse struct {
	Revoked bool `json:"revoked"`
}

// StatusResponse acknowledges an operation with no other payload.
type StatusResponse struct {
	Status string `json:"status"`
}

// HealthChecks reports per-dependency health on the readiness endpoint.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the livez and readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

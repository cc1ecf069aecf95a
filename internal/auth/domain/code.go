package domain

import "time"

// CodeKind discriminates the one-time verification code records.
type CodeKind string

const (
	CodeKindEmailVerification CodeKind = "email_verification"
	CodeKindPasswordReset     CodeKind = "password_reset"
)

// VerificationCode is a random one-time code with an expiry. It is deleted
// on successful consumption; expired-but-undeleted rows are treated as
// invalid at validation time.
type VerificationCode struct {
	ID        string
	UserID    string
	Code      string
	Kind      CodeKind
	CreatedAt time.Time
	ExpiresAt time.Time
}

// MagicLink is an emailed one-time code that authenticates without a
// password. At most one unexpired link exists per user: repeated send
// requests reuse the outstanding link rather than invalidating it.
type MagicLink struct {
	ID        string
	UserID    string
	Code      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

package domain

// AuthResult is what a successful authentication flow produces: a user plus
// a token pair, or an MFA challenge that short-circuits session creation.
type AuthResult struct {
	User         User
	Session      Session
	AccessToken  string
	RefreshToken string

	// MFARequired signals that credentials checked out but a TOTP code is
	// still needed. No session or tokens exist when it is set.
	MFARequired bool
}

// RefreshResult carries the always-reissued access token and, only when the
// session was inside its rolling renewal window, a fresh refresh token.
type RefreshResult struct {
	AccessToken  string
	RefreshToken string // empty unless the refresh token was rotated
	Session      Session
}

// MFASetup is returned by MFA enrollment: the shared secret and the
// otpauth:// provisioning URI for QR rendering by the client.
type MFASetup struct {
	Secret          string
	ProvisioningURI string
}

// MailReceipt reports the outcome of a best-effort email dispatch.
type MailReceipt struct {
	Delivered bool
	MessageID string
}

package domain

import "time"

// Session anchors one logical login on one device. It is the revocation
// authority for tokens: a refresh token is only honoured while its session
// row exists and has not expired.
type Session struct {
	ID        string
	UserID    string
	UserAgent string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

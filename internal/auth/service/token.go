package service

import (
	"time"

	"github.com/aussiebroadwan/doorman/pkg/jwtx"
)

// TokenService signs and verifies the two token kinds. Access and refresh
// tokens use distinct secrets so one compromised key cannot forge the other
// kind; jwtx additionally rejects cross-kind verification on claim shape.
type TokenService struct {
	Issuer        string
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// SignAccess mints a short-lived access token for a user+session pair.
func (s *TokenService) SignAccess(userID, sessionID string) (string, error) {
	signer, err := jwtx.NewSigner(s.AccessSecret)
	if err != nil {
		return "", err
	}
	return signer.Sign(jwtx.NewAccessClaims(userID, sessionID, s.Issuer, s.AccessTTL, s.now()))
}

// SignRefresh mints a refresh token identifying a session only.
func (s *TokenService) SignRefresh(sessionID string) (string, error) {
	signer, err := jwtx.NewSigner(s.RefreshSecret)
	if err != nil {
		return "", err
	}
	return signer.Sign(jwtx.NewRefreshClaims(sessionID, s.Issuer, s.RefreshTTL, s.now()))
}

// VerifyAccess validates an access token. Fails with jwtx.ErrInvalidToken on
// any expected failure (bad signature, expiry, audience, wrong kind).
func (s *TokenService) VerifyAccess(token string) (jwtx.AccessClaims, error) {
	return jwtx.VerifyAccess(s.AccessSecret, token)
}

// VerifyRefresh validates a refresh token.
func (s *TokenService) VerifyRefresh(token string) (jwtx.RefreshClaims, error) {
	return jwtx.VerifyRefresh(s.RefreshSecret, token)
}

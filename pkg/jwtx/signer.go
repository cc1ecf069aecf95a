package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Signer signs claims with an HMAC-SHA256 secret. Construct one per token
// kind; the access and refresh secrets must never be shared.
type Signer struct {
	secret []byte
}

// NewSigner wraps the given secret. The secret must not be empty.
func NewSigner(secret []byte) (Signer, error) {
	if len(secret) == 0 {
		return Signer{}, errors.New("jwtx: signing secret must not be empty")
	}
	return Signer{secret: secret}, nil
}

// Sign produces a compact serialized JWT for the given claims.
func (s Signer) Sign(claims jwt.Claims) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("jwtx: signer not initialised")
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

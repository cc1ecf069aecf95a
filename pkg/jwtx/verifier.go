package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every expected verification failure: bad signature,
// malformed token, wrong audience, wrong kind, expiry. Callers branch on this
// sentinel rather than the parser's internal errors.
var ErrInvalidToken = errors.New("jwtx: invalid token")

// VerifyAccess validates an access token against the access secret and
// returns its claims.
func VerifyAccess(secret []byte, token string) (AccessClaims, error) {
	var claims AccessClaims
	if err := parseInto(secret, token, &claims); err != nil {
		return AccessClaims{}, err
	}
	if claims.UserID == "" || claims.SessionID == "" {
		return AccessClaims{}, ErrInvalidToken
	}
	return claims, nil
}

// VerifyRefresh validates a refresh token against the refresh secret and
// returns its claims. An access token verified here fails on signature.
func VerifyRefresh(secret []byte, token string) (RefreshClaims, error) {
	var claims RefreshClaims
	if err := parseInto(secret, token, &claims); err != nil {
		return RefreshClaims{}, err
	}
	if claims.SessionID == "" {
		return RefreshClaims{}, ErrInvalidToken
	}
	return claims, nil
}

func parseInto(secret []byte, token string, claims jwt.Claims) error {
	keyfunc := func(*jwt.Token) (any, error) { return secret, nil }

	parsed, err := jwt.ParseWithClaims(token, claims, keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}

// Package jwtx issues and verifies the two JWT kinds the service uses:
// short-lived access tokens identifying a user+session, and longer-lived
// refresh tokens identifying a session only. Each kind is signed with its
// own HMAC secret so compromise of one cannot forge the other.
package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Audience is the audience claim stamped on every token we issue.
const Audience = "user"

// AccessClaims is the payload of an access token.
type AccessClaims struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. It deliberately carries no
// user id: the session row is the source of truth for who it belongs to.
type RefreshClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// NewAccessClaims builds access token claims expiring ttl after now.
func NewAccessClaims(userID, sessionID, issuer string, ttl time.Duration, now time.Time) AccessClaims {
	return AccessClaims{
		UserID:           userID,
		SessionID:        sessionID,
		RegisteredClaims: registered(issuer, ttl, now),
	}
}

// NewRefreshClaims builds refresh token claims expiring ttl after now.
func NewRefreshClaims(sessionID, issuer string, ttl time.Duration, now time.Time) RefreshClaims {
	return RefreshClaims{
		SessionID:        sessionID,
		RegisteredClaims: registered(issuer, ttl, now),
	}
}

func registered(issuer string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

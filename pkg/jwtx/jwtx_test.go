package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/doorman/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = []byte("test-access-secret")
	refreshSecret = []byte("test-refresh-secret")
)

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewSigner(accessSecret)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims("user-1", "sess-1", "doorman", 15*time.Minute, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := jwtx.VerifyAccess(accessSecret, token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.UserID)
	require.Equal(t, "sess-1", got.SessionID)
	require.Contains(t, got.Audience, jwtx.Audience)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewSigner(refreshSecret)
	require.NoError(t, err)

	claims := jwtx.NewRefreshClaims("sess-9", "doorman", 30*24*time.Hour, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := jwtx.VerifyRefresh(refreshSecret, token)
	require.NoError(t, err)
	require.Equal(t, "sess-9", got.SessionID)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	accessSigner, err := jwtx.NewSigner(accessSecret)
	require.NoError(t, err)
	refreshSigner, err := jwtx.NewSigner(refreshSecret)
	require.NoError(t, err)

	access, err := accessSigner.Sign(jwtx.NewAccessClaims("u", "s", "doorman", time.Minute, time.Now()))
	require.NoError(t, err)
	refresh, err := refreshSigner.Sign(jwtx.NewRefreshClaims("s", "doorman", time.Minute, time.Now()))
	require.NoError(t, err)

	// Access token against the refresh secret and vice versa must both fail.
	_, err = jwtx.VerifyRefresh(refreshSecret, access)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
	_, err = jwtx.VerifyAccess(accessSecret, refresh)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewSigner(accessSecret)
	require.NoError(t, err)

	stale := jwtx.NewAccessClaims("u", "s", "doorman", time.Minute, time.Now().Add(-time.Hour))
	token, err := signer.Sign(stale)
	require.NoError(t, err)

	_, err = jwtx.VerifyAccess(accessSecret, token)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := jwtx.VerifyAccess(accessSecret, "not.a.jwt")
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
	_, err = jwtx.VerifyRefresh(refreshSecret, "")
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestNewSignerRejectsEmptySecret(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewSigner(nil)
	require.Error(t, err)
}

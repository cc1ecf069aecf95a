package service

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/doorman/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return &TokenService{
		Issuer:        "doorman-test",
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    30 * 24 * time.Hour,
	}
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService()

	access, err := svc.SignAccess("user-1", "sess-1")
	require.NoError(t, err)
	refresh, err := svc.SignRefresh("sess-1")
	require.NoError(t, err)

	claims, err := svc.VerifyAccess(access)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "sess-1", claims.SessionID)

	rc, err := svc.VerifyRefresh(refresh)
	require.NoError(t, err)
	require.Equal(t, "sess-1", rc.SessionID)

	_, err = svc.VerifyAccess(refresh)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
	_, err = svc.VerifyRefresh(access)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService()
	svc.Now = fixedClock(time.Now().Add(-time.Hour))

	access, err := svc.SignAccess("user-1", "sess-1")
	require.NoError(t, err)

	_, err = svc.VerifyAccess(access)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestMFATwoPhaseEnrollment(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := createTestUser(t, st, "gus@example.com", "pw123456", true)

	svc := &MFAService{Store: st, Issuer: "doorman"}

	setup, err := svc.GenerateSetup(ctx, u.ID)
	require.NoError(t, err)
	require.NotEmpty(t, setup.Secret)
	require.True(t, strings.HasPrefix(setup.ProvisioningURI, "otpauth://totp/"))
	require.Contains(t, setup.ProvisioningURI, "issuer=doorman")
	require.Contains(t, setup.ProvisioningURI, "secret="+setup.Secret)

	t.Run("secret stored but not yet enabled", func(t *testing.T) {
		stored, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.False(t, stored.MFAEnabled)
		require.NotNil(t, stored.MFASecret)
		require.Equal(t, setup.Secret, *stored.MFASecret)
	})

	t.Run("retried setup returns the same secret", func(t *testing.T) {
		again, err := svc.GenerateSetup(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, setup.Secret, again.Secret)
	})

	t.Run("wrong confirmation code rejected", func(t *testing.T) {
		err := svc.ConfirmSetup(ctx, u.ID, "000000")
		require.ErrorIs(t, err, ErrInvalidMFACode)

		stored, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.False(t, stored.MFAEnabled)
	})

	t.Run("valid confirmation enables MFA", func(t *testing.T) {
		code, err := totp.GenerateCode(setup.Secret, time.Now())
		require.NoError(t, err)

		require.NoError(t, svc.ConfirmSetup(ctx, u.ID, code))

		stored, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, stored.MFAEnabled)
	})

	t.Run("setup refused once enabled", func(t *testing.T) {
		_, err := svc.GenerateSetup(ctx, u.ID)
		require.ErrorIs(t, err, ErrMFAAlreadyEnabled)
	})

	t.Run("confirm is a no-op once enabled", func(t *testing.T) {
		require.NoError(t, svc.ConfirmSetup(ctx, u.ID, "000000"))
	})
}

func TestMFARevoke(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := createTestUser(t, st, "hana@example.com", "pw123456", true)

	svc := &MFAService{Store: st, Issuer: "doorman"}

	t.Run("revoking when not enabled reports false", func(t *testing.T) {
		revoked, err := svc.Revoke(ctx, u.ID)
		require.NoError(t, err)
		require.False(t, revoked)
	})

	setup, err := svc.GenerateSetup(ctx, u.ID)
	require.NoError(t, err)
	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmSetup(ctx, u.ID, code))

	t.Run("revoking clears secret and flag", func(t *testing.T) {
		revoked, err := svc.Revoke(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, revoked)

		stored, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.False(t, stored.MFAEnabled)
		require.Nil(t, stored.MFASecret)
	})

	t.Run("a fresh enrollment gets a new secret", func(t *testing.T) {
		again, err := svc.GenerateSetup(ctx, u.ID)
		require.NoError(t, err)
		require.NotEqual(t, setup.Secret, again.Secret)
	})
}

func TestMFAConfirmWithoutSetup(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := createTestUser(t, st, "iris@example.com", "pw123456", true)

	svc := &MFAService{Store: st, Issuer: "doorman"}
	require.ErrorIs(t, svc.ConfirmSetup(ctx, u.ID, "123456"), ErrMFANotEnabled)
}

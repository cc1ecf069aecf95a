package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

// newTestAuth wires a full AuthService against an in-memory store. The clock
// is pinned to now; JWT validation uses the real clock, so callers should
// pin near the present.
func newTestAuth(st store.Store, m *recorderMailer, now time.Time) *AuthService {
	tokens := newTestTokenService()
	tokens.Now = fixedClock(now)

	return &AuthService{
		Store:      st,
		Mailer:     m,
		Tokens:     tokens,
		Sessions:   &SessionService{Store: st, RefreshTTL: tokens.RefreshTTL, Now: fixedClock(now)},
		Codes:      &CodeService{Store: st, Now: fixedClock(now)},
		MFA:        &MFAService{Store: st, Issuer: "doorman"},
		AppOrigin:  "https://app.example",
		APIBaseURL: "https://api.example",
		VerifyTTL:  45 * time.Minute,
		ResetTTL:   time.Hour,
		MagicTTL:   10 * time.Minute,
		Now:        fixedClock(now),
	}
}

// codeFromEmail pulls the one-time code out of the link in a message body.
func codeFromEmail(t *testing.T, text string) string {
	t.Helper()
	_, after, found := strings.Cut(text, "code=")
	require.True(t, found, "no code in email body: %s", text)
	code, _, _ := strings.Cut(after, "&")
	return code
}

func testClock() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func TestRegisterAndVerifyAndLogin(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m := &recorderMailer{id: "msg-1"}
	svc := newTestAuth(st, m, testClock())

	u, err := svc.Register(ctx, "Jo", "  Jo@Example.COM ", "correct horse battery")
	require.NoError(t, err)
	require.Equal(t, "jo@example.com", u.Email, "email must be normalised")
	require.False(t, u.EmailVerified)
	require.Len(t, m.msgs, 1)
	require.Equal(t, "jo@example.com", m.msgs[0].To)

	sessions, err := st.Sessions().ListUserSessions(ctx, u.ID, testClock())
	require.NoError(t, err)
	require.Empty(t, sessions, "registration must not create a session")

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "Jo2", "jo@example.com", "another password")
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("login before verification resends the email", func(t *testing.T) {
		_, err := svc.Login(ctx, "jo@example.com", "correct horse battery", "ua")
		require.ErrorIs(t, err, ErrEmailNotVerified)
		require.Len(t, m.msgs, 2)
	})

	code := codeFromEmail(t, m.msgs[0].Text)

	verified, err := svc.VerifyEmail(ctx, code)
	require.NoError(t, err)
	require.True(t, verified.EmailVerified)

	t.Run("verification code is single use", func(t *testing.T) {
		_, err := svc.VerifyEmail(ctx, code)
		require.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := svc.Login(ctx, "jo@example.com", "wrong password!", "ua")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email fails the same way as a wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "correct horse battery", "ua")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	result, err := svc.Login(ctx, "jo@example.com", "correct horse battery", "test-agent")
	require.NoError(t, err)
	require.False(t, result.MFARequired)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)
	require.Equal(t, "test-agent", result.Session.UserAgent)

	claims, err := svc.Tokens.VerifyAccess(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)
	require.Equal(t, result.Session.ID, claims.SessionID)
}

func TestRefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m := &recorderMailer{id: "msg-1"}
	now := testClock()
	svc := newTestAuth(st, m, now)

	u := createTestUser(t, st, "kim@example.com", "pw123456!", true)
	result, err := svc.Login(ctx, u.Email, "pw123456!", "ua")
	require.NoError(t, err)

	t.Run("refresh far from expiry keeps the refresh token", func(t *testing.T) {
		out, err := svc.Refresh(ctx, result.RefreshToken)
		require.NoError(t, err)
		require.NotEmpty(t, out.AccessToken)
		require.Empty(t, out.RefreshToken, "no rotation outside the renewal window")
	})

	t.Run("refresh inside the renewal window rotates", func(t *testing.T) {
		late := newTestAuth(st, m, result.Session.ExpiresAt.Add(-time.Hour))

		out, err := late.Refresh(ctx, result.RefreshToken)
		require.NoError(t, err)
		require.NotEmpty(t, out.RefreshToken, "rotation must mint a new refresh token")
		require.Equal(t,
			result.Session.ExpiresAt.Add(-time.Hour).Add(late.Sessions.RefreshTTL).Unix(),
			out.Session.ExpiresAt.Unix())
	})

	t.Run("garbage refresh token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "not.a.jwt")
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, result.AccessToken)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("logout invalidates refresh immediately", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx, result.Session.ID))

		_, err := svc.Refresh(ctx, result.RefreshToken)
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m := &recorderMailer{id: "msg-1"}
	svc := newTestAuth(st, m, testClock())

	u := createTestUser(t, st, "lee@example.com", "old password!", true)
	login, err := svc.Login(ctx, u.Email, "old password!", "ua")
	require.NoError(t, err)

	t.Run("unknown email", func(t *testing.T) {
		require.ErrorIs(t, svc.ForgotPassword(ctx, "ghost@example.com"), ErrUserNotFound)
	})

	require.NoError(t, svc.ForgotPassword(ctx, u.Email))
	require.Len(t, m.msgs, 1)
	code := codeFromEmail(t, m.msgs[0].Text)

	require.NoError(t, svc.ResetPassword(ctx, "new password!", code))

	t.Run("reset code is single use", func(t *testing.T) {
		require.ErrorIs(t, svc.ResetPassword(ctx, "again!", code), ErrInvalidCode)
	})

	t.Run("old password no longer works", func(t *testing.T) {
		_, err := svc.Login(ctx, u.Email, "old password!", "ua")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("all sessions purged", func(t *testing.T) {
		_, err := st.Sessions().GetSessionByID(ctx, login.Session.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("new password works", func(t *testing.T) {
		_, err := svc.Login(ctx, u.Email, "new password!", "ua")
		require.NoError(t, err)
	})
}

func TestForgotPasswordRequiresDelivery(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m := &recorderMailer{} // empty delivery id
	svc := newTestAuth(st, m, testClock())

	u := createTestUser(t, st, "max@example.com", "pw123456!", true)
	require.ErrorIs(t, svc.ForgotPassword(ctx, u.Email), ErrMailDelivery)
}

func TestForgotPasswordUnverifiedResendsVerification(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m := &recorderMailer{id: "msg-1"}
	svc := newTestAuth(st, m, testClock())

	u := createTestUser(t, st, "nia@example.com", "pw123456!", false)
	require.ErrorIs(t, svc.ForgotPassword(ctx, u.Email), ErrEmailNotVerified)
	require.Len(t, m.msgs, 1)
	require.Contains(t, m.msgs[0].Text, "confirm-account")
}

func TestMagicLinkFlow(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m := &recorderMailer{id: "msg-1"}
	svc := newTestAuth(st, m, testClock())

	u := createTestUser(t, st, "oli@example.com", "pw123456!", true)

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.SendMagicLink(ctx, "ghost@example.com")
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	receipt, err := svc.SendMagicLink(ctx, u.Email)
	require.NoError(t, err)
	require.True(t, receipt.Delivered)
	require.Equal(t, "msg-1", receipt.MessageID)
	require.Len(t, m.msgs, 1)
	require.Contains(t, m.msgs[0].Text, "/v1/auth/magic/callback")

	code := codeFromEmail(t, m.msgs[0].Text)

	result, err := svc.MagicAuthenticate(ctx, code, "ua")
	require.NoError(t, err)
	require.False(t, result.MFARequired)
	require.NotEmpty(t, result.AccessToken)
	require.Equal(t, u.ID, result.Session.UserID)

	t.Run("link is single use", func(t *testing.T) {
		_, err := svc.MagicAuthenticate(ctx, code, "ua")
		require.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("dispatch failure reports undelivered without failing", func(t *testing.T) {
		broken := &recorderMailer{}
		svc := newTestAuth(st, broken, testClock())

		receipt, err := svc.SendMagicLink(ctx, u.Email)
		require.NoError(t, err)
		require.False(t, receipt.Delivered)
	})
}

func TestMFALoginFlow(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m := &recorderMailer{id: "msg-1"}
	svc := newTestAuth(st, m, testClock())

	u := createTestUser(t, st, "pam@example.com", "pw123456!", true)

	setup, err := svc.MFA.GenerateSetup(ctx, u.ID)
	require.NoError(t, err)
	confirm, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.MFA.ConfirmSetup(ctx, u.ID, confirm))

	result, err := svc.Login(ctx, u.Email, "pw123456!", "ua")
	require.NoError(t, err)
	require.True(t, result.MFARequired)
	require.Empty(t, result.AccessToken)
	require.Empty(t, result.Session.ID, "MFA challenge must not create a session")

	t.Run("wrong TOTP code", func(t *testing.T) {
		_, err := svc.VerifyMFAForLogin(ctx, "000000", u.Email, "ua")
		require.ErrorIs(t, err, ErrInvalidMFACode)
	})

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)

	completed, err := svc.VerifyMFAForLogin(ctx, code, u.Email, "ua")
	require.NoError(t, err)
	require.False(t, completed.MFARequired)
	require.NotEmpty(t, completed.AccessToken)
	require.Equal(t, u.ID, completed.Session.UserID)

	t.Run("magic link also defers to MFA", func(t *testing.T) {
		_, err := svc.SendMagicLink(ctx, u.Email)
		require.NoError(t, err)
		link := codeFromEmail(t, m.msgs[len(m.msgs)-1].Text)

		result, err := svc.MagicAuthenticate(ctx, link, "ua")
		require.NoError(t, err)
		require.True(t, result.MFARequired)
		require.Equal(t, u.Email, result.User.Email)

		// consumed even on the MFA path
		_, err = svc.MagicAuthenticate(ctx, link, "ua")
		require.ErrorIs(t, err, ErrInvalidCode)
	})
}

package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/aussiebroadwan/doorman/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func insertUser(t *testing.T, s *Store, email string) domain.User {
	t.Helper()

	now := time.Unix(1756684800, 0).UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Name:         "Test",
		Email:        email,
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestUserEmailUnique(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u := insertUser(t, s, "dup@example.com")

	dup := u
	dup.ID = idx.New().String()
	err := s.Users().CreateUser(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u := insertUser(t, s, "rt@example.com")

	got, err := s.Users().GetUserByEmail(ctx, "rt@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.False(t, got.EmailVerified)
	require.Nil(t, got.MFASecret)

	require.NoError(t, s.Users().MarkEmailVerified(ctx, u.ID))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.EmailVerified)

	_, err = s.Users().GetUserByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetMFASecretIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := insertUser(t, s, "mfa@example.com")

	won, err := s.Users().SetMFASecretIfAbsent(ctx, u.ID, "first")
	require.NoError(t, err)
	require.True(t, won)

	// Second write loses: the stored secret is already set.
	won, err = s.Users().SetMFASecretIfAbsent(ctx, u.ID, "second")
	require.NoError(t, err)
	require.False(t, won)

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.MFASecret)
	require.Equal(t, "first", *got.MFASecret)

	// Disable clears it, allowing a fresh enrollment.
	require.NoError(t, s.Users().DisableMFA(ctx, u.ID))
	won, err = s.Users().SetMFASecretIfAbsent(ctx, u.ID, "second")
	require.NoError(t, err)
	require.True(t, won)
}

func TestExtendSessionExpiryIsConditional(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := insertUser(t, s, "sess@example.com")

	now := time.Unix(1756684800, 0).UTC()
	sess := domain.Session{
		ID:        idx.New().String(),
		UserID:    u.ID,
		UserAgent: "ua",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, s.Sessions().CreateSession(ctx, sess))

	next := now.Add(2 * time.Hour)
	require.NoError(t, s.Sessions().ExtendSessionExpiry(ctx, sess.ID, sess.ExpiresAt, next))

	// Replaying with the stale previous expiry must not match the row.
	err := s.Sessions().ExtendSessionExpiry(ctx, sess.ID, sess.ExpiresAt, now.Add(3*time.Hour))
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.Sessions().GetSessionByID(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, next.Unix(), got.ExpiresAt.Unix())
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := insertUser(t, s, "cascade@example.com")

	now := time.Unix(1756684800, 0).UTC()
	sess := domain.Session{ID: idx.New().String(), UserID: u.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, s.Sessions().CreateSession(ctx, sess))

	code := domain.VerificationCode{
		ID: idx.New().String(), UserID: u.ID, Code: "code-1",
		Kind: domain.CodeKindEmailVerification, CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, s.VerificationCodes().CreateVerificationCode(ctx, code))

	link := domain.MagicLink{ID: idx.New().String(), UserID: u.ID, Code: "link-1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, s.MagicLinks().CreateMagicLink(ctx, link))

	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))

	_, err := s.Sessions().GetSessionByID(ctx, sess.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.VerificationCodes().GetVerificationCode(ctx, "code-1", domain.CodeKindEmailVerification)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.MagicLinks().GetMagicLinkByCode(ctx, "link-1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestHousekeepingDeletes(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := insertUser(t, s, "hk@example.com")

	now := time.Unix(1756684800, 0).UTC()
	live := domain.Session{ID: idx.New().String(), UserID: u.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	dead := domain.Session{ID: idx.New().String(), UserID: u.ID, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, s.Sessions().CreateSession(ctx, live))
	require.NoError(t, s.Sessions().CreateSession(ctx, dead))

	require.NoError(t, s.Sessions().DeleteExpiredSessions(ctx, now))

	_, err := s.Sessions().GetSessionByID(ctx, dead.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Sessions().GetSessionByID(ctx, live.ID)
	require.NoError(t, err)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	now := time.Unix(1756684800, 0).UTC()
	boom := func(tx store.Tx) error {
		u := domain.User{
			ID: idx.New().String(), Name: "tx", Email: "tx@example.com",
			PasswordHash: "x", CreatedAt: now, UpdatedAt: now,
		}
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return context.Canceled
	}
	require.ErrorIs(t, s.WithTx(ctx, boom), context.Canceled)

	_, err := s.Users().GetUserByEmail(ctx, "tx@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/aussiebroadwan/doorman/pkg/idx"
)

// sessionRenewalThreshold is the remaining-lifetime cutoff below which a
// refresh call also extends the session and reissues the refresh token.
// Keeping it fixed (rather than configurable) caps how long a leaked but
// unused refresh token stays silently renewable.
const sessionRenewalThreshold = 24 * time.Hour

// SessionService owns the session lifecycle. Sessions are the revocation
// authority: tokens stay cryptographically valid until expiry, but refresh
// is only honoured while the session row exists.
type SessionService struct {
	Store      store.Store
	RefreshTTL time.Duration

	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Create inserts a new session expiring RefreshTTL from now.
func (s *SessionService) Create(ctx context.Context, userID, userAgent string) (domain.Session, error) {
	now := s.now()
	sess := domain.Session{
		ID:        idx.New().String(),
		UserID:    userID,
		UserAgent: userAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.RefreshTTL),
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

// Rotation is the outcome of a refresh call against a live session.
type Rotation struct {
	Session domain.Session
	// RefreshReissued signals the caller must mint a new refresh token.
	// The access token is always reissued regardless.
	RefreshReissued bool
}

// RotateOnRefresh applies the rolling-renewal algorithm:
//   - session already expired: ErrSessionExpired, row left untouched;
//   - more than the renewal threshold remaining: nothing changes;
//   - inside the threshold: extend expiry to now+RefreshTTL and signal that
//     a new refresh token must be minted.
//
// The extension is a conditional write keyed on the previous expiry, so two
// concurrent refresh calls cannot both rotate the same session generation;
// the loser observes the winner's extension and does not reissue.
func (s *SessionService) RotateOnRefresh(ctx context.Context, sess domain.Session, now time.Time) (Rotation, error) {
	if sess.Expired(now) {
		return Rotation{}, ErrSessionExpired
	}

	if sess.ExpiresAt.Sub(now) > sessionRenewalThreshold {
		return Rotation{Session: sess}, nil
	}

	next := now.Add(s.RefreshTTL)
	err := s.Store.Sessions().ExtendSessionExpiry(ctx, sess.ID, sess.ExpiresAt, next)
	if errors.Is(err, store.ErrNotFound) {
		// A concurrent refresh rotated (or logout deleted) the session.
		fresh, gerr := s.Store.Sessions().GetSessionByID(ctx, sess.ID)
		if gerr != nil {
			return Rotation{}, ErrSessionExpired
		}
		return Rotation{Session: fresh}, nil
	}
	if err != nil {
		return Rotation{}, err
	}

	sess.ExpiresAt = next
	return Rotation{Session: sess, RefreshReissued: true}, nil
}

// Get loads a session by id.
func (s *SessionService) Get(ctx context.Context, id string) (domain.Session, error) {
	sess, err := s.Store.Sessions().GetSessionByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, ErrSessionNotFound
	}
	return sess, err
}

// ListForUser returns the user's unexpired sessions, newest first.
func (s *SessionService) ListForUser(ctx context.Context, userID string) ([]domain.Session, error) {
	return s.Store.Sessions().ListUserSessions(ctx, userID, s.now())
}

// Delete removes one session (logout or revoking another device).
func (s *SessionService) Delete(ctx context.Context, id string) error {
	err := s.Store.Sessions().DeleteSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}

// DeleteAllForUser purges every session for a user, forcing re-login
// everywhere. Used on password reset.
func (s *SessionService) DeleteAllForUser(ctx context.Context, userID string) error {
	return s.Store.Sessions().DeleteUserSessions(ctx, userID)
}

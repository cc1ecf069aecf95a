package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Sessions() Sessions
	VerificationCodes() VerificationCodes
	MagicLinks() MagicLinks

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run multi-step mutations atomically.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and the code flows. Email matching
	// is exact; callers normalise case before storing and querying.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists if the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// MarkEmailVerified flips email_verified to true.
	MarkEmailVerified(ctx context.Context, userID string) error

	// SetMFASecretIfAbsent stores the TOTP secret only if none is set yet.
	// Returns false when a secret already existed; concurrent enrollments
	// then re-read the winner's secret instead of overwriting it.
	SetMFASecretIfAbsent(ctx context.Context, userID string, secret string) (bool, error)

	// EnableMFA flips mfa_enabled to true. The secret must already be stored.
	EnableMFA(ctx context.Context, userID string) error

	// DisableMFA clears the secret and flips mfa_enabled to false.
	DisableMFA(ctx context.Context, userID string) error

	// DeleteUser cascades to sessions, codes and magic links (per schema).
	DeleteUser(ctx context.Context, userID string) error
}

type Sessions interface {
	// CreateSession stores a new session record.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByID returns the session row whether expired or not; expiry
	// is enforced by the caller so expired rows stay observable.
	GetSessionByID(ctx context.Context, id string) (domain.Session, error)

	// ListUserSessions returns a user's unexpired sessions, newest first.
	ListUserSessions(ctx context.Context, userID string, now time.Time) ([]domain.Session, error)

	// ExtendSessionExpiry is a conditional write: it updates expires_at only
	// when the stored value still equals prev. Returns ErrNotFound when the
	// row is missing or another refresh already rotated it.
	ExtendSessionExpiry(ctx context.Context, id string, prev, next time.Time) error

	// DeleteSession removes one session (logout).
	DeleteSession(ctx context.Context, id string) error

	// DeleteUserSessions removes every session for a user (password reset).
	DeleteUserSessions(ctx context.Context, userID string) error

	// DeleteExpiredSessions is housekeeping; correctness never depends on it.
	DeleteExpiredSessions(ctx context.Context, now time.Time) error
}

type VerificationCodes interface {
	// CreateVerificationCode stores a freshly minted one-time code.
	CreateVerificationCode(ctx context.Context, c domain.VerificationCode) error

	// GetVerificationCode fetches a code by its value and kind.
	GetVerificationCode(ctx context.Context, code string, kind domain.CodeKind) (domain.VerificationCode, error)

	// CountCodesSince counts codes of a kind created for the user at or
	// after the given instant. Used for the password-reset rate limit.
	CountCodesSince(ctx context.Context, userID string, kind domain.CodeKind, since time.Time) (int, error)

	// DeleteVerificationCode consumes a code by id.
	DeleteVerificationCode(ctx context.Context, id string) error

	// DeleteExpiredVerificationCodes is housekeeping.
	DeleteExpiredVerificationCodes(ctx context.Context, now time.Time) error
}

type MagicLinks interface {
	// CreateMagicLink stores a new magic link.
	CreateMagicLink(ctx context.Context, l domain.MagicLink) error

	// GetMagicLinkByCode fetches a link by its code value.
	GetMagicLinkByCode(ctx context.Context, code string) (domain.MagicLink, error)

	// GetActiveMagicLink returns the user's unexpired link, if any.
	GetActiveMagicLink(ctx context.Context, userID string, now time.Time) (domain.MagicLink, error)

	// DeleteMagicLink consumes a link by id.
	DeleteMagicLink(ctx context.Context, id string) error

	// DeleteExpiredMagicLinks is housekeeping.
	DeleteExpiredMagicLinks(ctx context.Context, now time.Time) error
}

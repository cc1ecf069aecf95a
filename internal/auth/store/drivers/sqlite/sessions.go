package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, user_agent, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.UserAgent, unix(s.CreatedAt), unix(s.ExpiresAt))
	return mapConflict(err)
}

func (r *sessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, user_agent, created_at, expires_at FROM sessions WHERE id = ?`, id)
	return scanSession(row.Scan)
}

func (r *sessionsRepo) ListUserSessions(ctx context.Context, userID string, now time.Time) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, user_agent, created_at, expires_at
		 FROM sessions
		 WHERE user_id = ? AND expires_at > ?
		 ORDER BY created_at DESC`,
		userID, unix(now))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		s, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// ExtendSessionExpiry only succeeds while the stored expiry still equals
// prev, so two concurrent refresh calls cannot both rotate one session.
func (r *sessionsRepo) ExtendSessionExpiry(ctx context.Context, id string, prev, next time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET expires_at = ? WHERE id = ? AND expires_at = ?`,
		unix(next), id, unix(prev))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *sessionsRepo) DeleteUserSessions(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, unix(now))
	return err
}

func scanSession(scan func(...any) error) (domain.Session, error) {
	var (
		s                    domain.Session
		createdAt, expiresAt int64
	)
	if err := scan(&s.ID, &s.UserID, &s.UserAgent, &createdAt, &expiresAt); err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.CreatedAt = fromUnix(createdAt)
	s.ExpiresAt = fromUnix(expiresAt)
	return s, nil
}

package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
)

type codesRepo struct {
	db dbtx
}

func (r *codesRepo) CreateVerificationCode(ctx context.Context, c domain.VerificationCode) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO verification_codes (id, user_id, code, kind, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Code, string(c.Kind), unix(c.CreatedAt), unix(c.ExpiresAt))
	return mapConflict(err)
}

func (r *codesRepo) GetVerificationCode(ctx context.Context, code string, kind domain.CodeKind) (domain.VerificationCode, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, code, kind, created_at, expires_at
		 FROM verification_codes WHERE code = ? AND kind = ?`,
		code, string(kind))

	var (
		c                    domain.VerificationCode
		kindStr              string
		createdAt, expiresAt int64
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.Code, &kindStr, &createdAt, &expiresAt); err != nil {
		return domain.VerificationCode{}, mapNotFound(err)
	}
	c.Kind = domain.CodeKind(kindStr)
	c.CreatedAt = fromUnix(createdAt)
	c.ExpiresAt = fromUnix(expiresAt)
	return c, nil
}

func (r *codesRepo) CountCodesSince(ctx context.Context, userID string, kind domain.CodeKind, since time.Time) (int, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM verification_codes
		 WHERE user_id = ? AND kind = ? AND created_at >= ?`,
		userID, string(kind), unix(since))

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *codesRepo) DeleteVerificationCode(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM verification_codes WHERE id = ?`, id)
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

func (r *codesRepo) DeleteExpiredVerificationCodes(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM verification_codes WHERE expires_at <= ?`, unix(now))
	return err
}

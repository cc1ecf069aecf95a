package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
)

type magicLinksRepo struct {
	db dbtx
}

func (r *magicLinksRepo) CreateMagicLink(ctx context.Context, l domain.MagicLink) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO magic_links (id, user_id, code, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		l.ID, l.UserID, l.Code, unix(l.CreatedAt), unix(l.ExpiresAt))
	return mapConflict(err)
}

func (r *magicLinksRepo) GetMagicLinkByCode(ctx context.Context, code string) (domain.MagicLink, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, code, created_at, expires_at FROM magic_links WHERE code = ?`, code)
	return scanMagicLink(row.Scan)
}

func (r *magicLinksRepo) GetActiveMagicLink(ctx context.Context, userID string, now time.Time) (domain.MagicLink, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, code, created_at, expires_at
		 FROM magic_links
		 WHERE user_id = ? AND expires_at > ?
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID, unix(now))
	return scanMagicLink(row.Scan)
}

func (r *magicLinksRepo) DeleteMagicLink(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM magic_links WHERE id = ?`, id)
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

func (r *magicLinksRepo) DeleteExpiredMagicLinks(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM magic_links WHERE expires_at <= ?`, unix(now))
	return err
}

func scanMagicLink(scan func(...any) error) (domain.MagicLink, error) {
	var (
		l                    domain.MagicLink
		createdAt, expiresAt int64
	)
	if err := scan(&l.ID, &l.UserID, &l.Code, &createdAt, &expiresAt); err != nil {
		return domain.MagicLink{}, mapNotFound(err)
	}
	l.CreatedAt = fromUnix(createdAt)
	l.ExpiresAt = fromUnix(expiresAt)
	return l, nil
}

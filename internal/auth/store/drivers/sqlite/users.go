package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, name, email, password_hash, email_verified, mfa_enabled, mfa_secret, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, email_verified, mfa_enabled, mfa_secret, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash,
		boolToInt(u.EmailVerified), boolToInt(u.MFAEnabled), mapOptionalString(u.MFASecret),
		unix(u.CreatedAt), unix(u.UpdatedAt),
	)
	return mapConflict(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	return r.exec(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, nowUnix(), userID)
}

func (r *usersRepo) MarkEmailVerified(ctx context.Context, userID string) error {
	return r.exec(ctx,
		`UPDATE users SET email_verified = 1, updated_at = ? WHERE id = ?`,
		nowUnix(), userID)
}

func (r *usersRepo) SetMFASecretIfAbsent(ctx context.Context, userID string, secret string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET mfa_secret = ?, updated_at = ?
		 WHERE id = ? AND (mfa_secret IS NULL OR mfa_secret = '')`,
		secret, nowUnix(), userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *usersRepo) EnableMFA(ctx context.Context, userID string) error {
	return r.exec(ctx,
		`UPDATE users SET mfa_enabled = 1, updated_at = ? WHERE id = ?`,
		nowUnix(), userID)
}

func (r *usersRepo) DisableMFA(ctx context.Context, userID string) error {
	return r.exec(ctx,
		`UPDATE users SET mfa_enabled = 0, mfa_secret = NULL, updated_at = ? WHERE id = ?`,
		nowUnix(), userID)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return r.exec(ctx, `DELETE FROM users WHERE id = ?`, userID)
}

// exec runs a mutation that must touch exactly one row.
func (r *usersRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u                    domain.User
		verified, mfaEnabled int64
		secret               sql.NullString
		createdAt, updatedAt int64
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&verified, &mfaEnabled, &secret, &createdAt, &updatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.EmailVerified = verified != 0
	u.MFAEnabled = mfaEnabled != 0
	u.MFASecret = mapNullStringPtr(secret)
	u.CreatedAt = fromUnix(createdAt)
	u.UpdatedAt = fromUnix(updatedAt)
	return u, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func nowUnix() int64 { return time.Now().Unix() }

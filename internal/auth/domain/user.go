package domain

import "time"

type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string // argon2id encoded
	EmailVerified bool
	MFAEnabled    bool
	MFASecret     *string // TOTP secret (nullable, base32 encoded)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

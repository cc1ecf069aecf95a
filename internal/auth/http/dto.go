package http

import (
	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
)

func toUser(u domain.User) *authsdk.User {
	return &authsdk.User{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		MFAEnabled:    u.MFAEnabled,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func toSessionInfo(s domain.Session, currentID string) authsdk.SessionInfo {
	return authsdk.SessionInfo{
		ID:        s.ID,
		UserAgent: s.UserAgent,
		Current:   s.ID == currentID,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

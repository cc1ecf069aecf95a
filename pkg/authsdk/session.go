package authsdk

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

// Session is an authenticated view of the API. It holds the access token in
// memory; the refresh token lives in the client's cookie jar. Safe for
// concurrent use.
type Session struct {
	client *Client

	mu          sync.Mutex
	accessToken string
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

func (s *Session) do(ctx context.Context, method, path string, in, target any, expectedStatus int) error {
	err := s.client.doJSON(ctx, method, path, in, target, expectedStatus, s.AccessToken())

	// On an expired access token, refresh once and retry.
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		if rerr := s.Refresh(ctx); rerr != nil {
			return err
		}
		return s.client.doJSON(ctx, method, path, in, target, expectedStatus, s.AccessToken())
	}
	return err
}

// Refresh exchanges the refresh cookie for a new access token.
func (s *Session) Refresh(ctx context.Context) error {
	var out RefreshResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/auth/refresh", nil, &out, http.StatusOK, "")
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.accessToken = out.AccessToken
	s.mu.Unlock()
	return nil
}

// Logout revokes the session server-side and clears the local token.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.do(ctx, http.MethodPost, "/v1/auth/logout", nil, nil, http.StatusOK); err != nil {
		return err
	}
	s.mu.Lock()
	s.accessToken = ""
	s.mu.Unlock()
	return nil
}

// Me returns the authenticated user's profile.
func (s *Session) Me(ctx context.Context) (*User, error) {
	var out User
	if err := s.do(ctx, http.MethodGet, "/v1/users/me", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sessions lists the user's active sessions across devices.
func (s *Session) Sessions(ctx context.Context) ([]SessionInfo, error) {
	var out []SessionInfo
	if err := s.do(ctx, http.MethodGet, "/v1/sessions", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// RevokeSession deletes one of the user's sessions by id.
func (s *Session) RevokeSession(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/v1/sessions/"+id, nil, nil, http.StatusOK)
}

// MFASetup starts TOTP enrollment and returns the secret and provisioning
// URI. Enrollment is pending until MFAConfirm succeeds.
func (s *Session) MFASetup(ctx context.Context) (*MFASetupResponse, error) {
	var out MFASetupResponse
	if err := s.do(ctx, http.MethodPost, "/v1/auth/mfa/setup", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// MFAConfirm proves possession of the authenticator and switches MFA on.
func (s *Session) MFAConfirm(ctx context.Context, code string) error {
	return s.do(ctx, http.MethodPost, "/v1/auth/mfa/verify", MFACodeRequest{Code: code}, nil, http.StatusOK)
}

// MFARevoke disables MFA. Revoked reports whether it was enabled.
func (s *Session) MFARevoke(ctx context.Context) (*MFARevokeResponse, error) {
	var out MFARevokeResponse
	if err := s.do(ctx, http.MethodDelete, "/v1/auth/mfa", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

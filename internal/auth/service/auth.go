package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/mailer"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/aussiebroadwan/doorman/pkg/cryptox"
	"github.com/aussiebroadwan/doorman/pkg/idx"
	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

// AuthService composes credentials, codes, MFA, sessions and tokens into the
// user-facing flows. It returns plain results; HTTP translation lives at the
// boundary.
type AuthService struct {
	Store    store.Store
	Mailer   mailer.Mailer
	Tokens   *TokenService
	Sessions *SessionService
	Codes    *CodeService
	MFA      *MFAService

	// AppOrigin is the web frontend base URL embedded in emails.
	// APIBaseURL is this service's public base URL, used for the magic-link
	// callback.
	AppOrigin  string
	APIBaseURL string

	VerifyTTL time.Duration // email-verification code lifetime
	ResetTTL  time.Duration // password-reset code lifetime
	MagicTTL  time.Duration // magic-link lifetime

	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Register creates a new user and emails a verification code. No session or
// tokens are produced; the user must verify their email before logging in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	email = normaliseEmail(email)

	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		return domain.User{}, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	s.sendVerificationEmail(ctx, u)

	return u, nil
}

// Login checks credentials and produces a session plus token pair. Unverified
// accounts get their verification email resent and the login fails; MFA-
// enabled accounts get an MFA challenge instead of a session.
func (s *AuthService) Login(ctx context.Context, email, password, userAgent string) (domain.AuthResult, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, normaliseEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		// Same failure as a wrong password: no account enumeration.
		return domain.AuthResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.AuthResult{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		return domain.AuthResult{}, ErrInvalidCredentials
	}

	if !u.EmailVerified {
		s.sendVerificationEmail(ctx, u)
		return domain.AuthResult{}, ErrEmailNotVerified
	}

	if u.MFAEnabled {
		return domain.AuthResult{User: u, MFARequired: true}, nil
	}

	return s.establishSession(ctx, u, userAgent)
}

// Refresh exchanges a refresh token for a new access token, extending the
// session and rotating the refresh token when it is inside the rolling
// renewal window. Every failure is ErrUnauthorized: the caller cannot learn
// whether the token, the session, or the expiry was at fault.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.RefreshResult, error) {
	claims, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return domain.RefreshResult{}, ErrUnauthorized
	}

	sess, err := s.Store.Sessions().GetSessionByID(ctx, claims.SessionID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.RefreshResult{}, ErrUnauthorized
	}
	if err != nil {
		return domain.RefreshResult{}, err
	}

	rotation, err := s.Sessions.RotateOnRefresh(ctx, sess, s.now())
	if errors.Is(err, ErrSessionExpired) {
		return domain.RefreshResult{}, ErrUnauthorized
	}
	if err != nil {
		return domain.RefreshResult{}, err
	}

	access, err := s.Tokens.SignAccess(sess.UserID, sess.ID)
	if err != nil {
		return domain.RefreshResult{}, err
	}

	result := domain.RefreshResult{AccessToken: access, Session: rotation.Session}
	if rotation.RefreshReissued {
		refresh, err := s.Tokens.SignRefresh(sess.ID)
		if err != nil {
			return domain.RefreshResult{}, err
		}
		result.RefreshToken = refresh
	}
	return result, nil
}

// VerifyEmail validates an email-verification code, flips the user's
// verified flag and consumes the code. A second call with the same code
// fails because the code is gone.
func (s *AuthService) VerifyEmail(ctx context.Context, code string) (domain.User, error) {
	rec, err := s.Codes.Validate(ctx, code, domain.CodeKindEmailVerification)
	if err != nil {
		return domain.User{}, err
	}

	if err := s.Store.Users().MarkEmailVerified(ctx, rec.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCode
		}
		return domain.User{}, err
	}

	if err := s.Codes.Consume(ctx, rec); err != nil {
		return domain.User{}, err
	}

	return s.Store.Users().GetUserByID(ctx, rec.UserID)
}

// ForgotPassword issues a password-reset code and emails it. Issuance is
// rate limited (ErrTooManyAttempts); a mail dispatch that reports no
// delivery id fails the request so the user isn't left waiting for an email
// that never existed.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Store.Users().GetUserByEmail(ctx, normaliseEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	if !u.EmailVerified {
		s.sendVerificationEmail(ctx, u)
		return ErrEmailNotVerified
	}

	code, err := s.Codes.Issue(ctx, u.ID, domain.CodeKindPasswordReset, s.ResetTTL)
	if err != nil {
		return err
	}

	id, err := s.Mailer.Send(ctx, mailer.PasswordResetMessage(u.Email, s.AppOrigin, code.Code))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}
	if id == "" {
		return ErrMailDelivery
	}
	return nil
}

// ResetPassword validates a reset code, replaces the password, consumes the
// code, and purges every session for the user so all devices must log in
// again with the new password.
func (s *AuthService) ResetPassword(ctx context.Context, password, code string) error {
	rec, err := s.Codes.Validate(ctx, code, domain.CodeKindPasswordReset)
	if err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, rec.UserID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCode
		}
		return err
	}

	if err := s.Codes.Consume(ctx, rec); err != nil {
		return err
	}

	return s.Sessions.DeleteAllForUser(ctx, rec.UserID)
}

// Logout deletes the caller's session, invalidating its refresh token
// immediately.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionNotFound
	}
	return s.Sessions.Delete(ctx, sessionID)
}

// SendMagicLink emails a passwordless sign-in link. An outstanding unexpired
// link is reused rather than replaced. Mail dispatch is best-effort: the
// receipt reports delivery, but a send failure does not fail the request.
func (s *AuthService) SendMagicLink(ctx context.Context, email string) (domain.MailReceipt, error) {
	log := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, normaliseEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return domain.MailReceipt{}, ErrUserNotFound
	}
	if err != nil {
		return domain.MailReceipt{}, err
	}

	link, err := s.Codes.IssueOrReuseMagicLink(ctx, u.ID, s.MagicTTL)
	if err != nil {
		return domain.MailReceipt{}, err
	}

	callback := fmt.Sprintf("%s/v1/auth/magic/callback?code=%s&redirect=%s",
		s.APIBaseURL, url.QueryEscape(link.Code), url.QueryEscape(s.AppOrigin))

	id, err := s.Mailer.Send(ctx, mailer.MagicLinkMessage(u.Email, callback))
	if err != nil || id == "" {
		log.Warn("magic link email dispatch failed", "err", err, "user_id", u.ID)
		return domain.MailReceipt{Delivered: false}, nil
	}
	return domain.MailReceipt{Delivered: true, MessageID: id}, nil
}

// MagicAuthenticate exchanges a magic-link code for a session. MFA-enabled
// users get an MFA challenge instead; the link is consumed either way so it
// cannot be replayed.
func (s *AuthService) MagicAuthenticate(ctx context.Context, code, userAgent string) (domain.AuthResult, error) {
	link, err := s.Codes.ValidateMagicLink(ctx, code)
	if err != nil {
		return domain.AuthResult{}, err
	}

	u, err := s.Store.Users().GetUserByID(ctx, link.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.AuthResult{}, ErrUserNotFound
	}
	if err != nil {
		return domain.AuthResult{}, err
	}

	if u.MFAEnabled {
		if err := s.Codes.ConsumeMagicLink(ctx, link); err != nil {
			return domain.AuthResult{}, err
		}
		return domain.AuthResult{User: u, MFARequired: true}, nil
	}

	result, err := s.establishSession(ctx, u, userAgent)
	if err != nil {
		return domain.AuthResult{}, err
	}
	if err := s.Codes.ConsumeMagicLink(ctx, link); err != nil {
		return domain.AuthResult{}, err
	}
	return result, nil
}

// VerifyMFAForLogin completes a login that was answered with an MFA
// challenge: it checks the TOTP code and only then creates the session.
func (s *AuthService) VerifyMFAForLogin(ctx context.Context, code, email, userAgent string) (domain.AuthResult, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, normaliseEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return domain.AuthResult{}, ErrUserNotFound
	}
	if err != nil {
		return domain.AuthResult{}, err
	}

	if !u.MFAEnabled || u.MFASecret == nil || *u.MFASecret == "" {
		return domain.AuthResult{}, ErrMFANotEnabled
	}

	if !s.MFA.VerifyForLogin(*u.MFASecret, code) {
		return domain.AuthResult{}, ErrInvalidMFACode
	}

	return s.establishSession(ctx, u, userAgent)
}

// establishSession creates a session and signs the token pair for it.
func (s *AuthService) establishSession(ctx context.Context, u domain.User, userAgent string) (domain.AuthResult, error) {
	sess, err := s.Sessions.Create(ctx, u.ID, userAgent)
	if err != nil {
		return domain.AuthResult{}, err
	}

	access, err := s.Tokens.SignAccess(u.ID, sess.ID)
	if err != nil {
		return domain.AuthResult{}, err
	}
	refresh, err := s.Tokens.SignRefresh(sess.ID)
	if err != nil {
		return domain.AuthResult{}, err
	}

	return domain.AuthResult{
		User:         u,
		Session:      sess,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// sendVerificationEmail issues a fresh email-verification code and emails
// it. Dispatch failures are logged, never fatal: the account exists either
// way and the user can request another email.
func (s *AuthService) sendVerificationEmail(ctx context.Context, u domain.User) {
	log := slogx.FromContext(ctx)

	code, err := s.Codes.Issue(ctx, u.ID, domain.CodeKindEmailVerification, s.VerifyTTL)
	if err != nil {
		log.Error("failed to issue verification code", "err", err, "user_id", u.ID)
		return
	}

	if _, err := s.Mailer.Send(ctx, mailer.VerifyEmailMessage(u.Email, s.AppOrigin, code.Code)); err != nil {
		log.Warn("verification email dispatch failed", "err", err, "user_id", u.ID)
	}
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/aussiebroadwan/doorman/pkg/cryptox"
	"github.com/aussiebroadwan/doorman/pkg/idx"
)

const (
	// codeBytes gives 256 bits of entropy, 43 chars base64url.
	codeBytes = cryptox.TokenSize256

	// Password-reset issuance limit: at most resetRateMax codes per user
	// within resetRateWindow. Check-then-act, so approximate under
	// concurrency; two simultaneous requests can exceed the limit by one.
	resetRateWindow = 3 * time.Minute
	resetRateMax    = 2
)

// CodeService manages one-time codes: email verification, password reset,
// and magic links. Codes are consumed explicitly, never implicitly on
// lookup, so the orchestrator can apply its state change first.
type CodeService struct {
	Store store.Store

	Now func() time.Time
}

func (s *CodeService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Issue mints a new one-time code of the given kind expiring ttl from now.
// PasswordReset issuance is rate limited per user.
func (s *CodeService) Issue(ctx context.Context, userID string, kind domain.CodeKind, ttl time.Duration) (domain.VerificationCode, error) {
	now := s.now()

	if kind == domain.CodeKindPasswordReset {
		count, err := s.Store.VerificationCodes().CountCodesSince(ctx, userID, kind, now.Add(-resetRateWindow))
		if err != nil {
			return domain.VerificationCode{}, fmt.Errorf("count recent codes: %w", err)
		}
		if count >= resetRateMax {
			return domain.VerificationCode{}, ErrTooManyAttempts
		}
	}

	raw, err := cryptox.GenerateToken(codeBytes)
	if err != nil {
		return domain.VerificationCode{}, fmt.Errorf("generate code: %w", err)
	}

	code := domain.VerificationCode{
		ID:        idx.New().String(),
		UserID:    userID,
		Code:      raw,
		Kind:      kind,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.Store.VerificationCodes().CreateVerificationCode(ctx, code); err != nil {
		return domain.VerificationCode{}, err
	}
	return code, nil
}

// Validate looks up a code by value and kind and checks its expiry. It does
// NOT consume the code; the caller applies its state change, then calls
// Consume.
func (s *CodeService) Validate(ctx context.Context, code string, kind domain.CodeKind) (domain.VerificationCode, error) {
	rec, err := s.Store.VerificationCodes().GetVerificationCode(ctx, code, kind)
	if errors.Is(err, store.ErrNotFound) {
		return domain.VerificationCode{}, ErrInvalidCode
	}
	if err != nil {
		return domain.VerificationCode{}, err
	}
	if !rec.ExpiresAt.After(s.now()) {
		return domain.VerificationCode{}, ErrInvalidCode
	}
	return rec, nil
}

// Consume deletes a code. Deleting an already-consumed code is not an error.
func (s *CodeService) Consume(ctx context.Context, code domain.VerificationCode) error {
	err := s.Store.VerificationCodes().DeleteVerificationCode(ctx, code.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// IssueOrReuseMagicLink returns the user's outstanding unexpired magic link,
// or mints a fresh one if none exists. Reuse keeps a link the user already
// received by email valid while a second send request is in flight, at the
// cost of extending its effective lifetime beyond ttl from the first issue.
func (s *CodeService) IssueOrReuseMagicLink(ctx context.Context, userID string, ttl time.Duration) (domain.MagicLink, error) {
	now := s.now()

	existing, err := s.Store.MagicLinks().GetActiveMagicLink(ctx, userID, now)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.MagicLink{}, err
	}

	raw, err := cryptox.GenerateToken(codeBytes)
	if err != nil {
		return domain.MagicLink{}, fmt.Errorf("generate magic link code: %w", err)
	}

	link := domain.MagicLink{
		ID:        idx.New().String(),
		UserID:    userID,
		Code:      raw,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.Store.MagicLinks().CreateMagicLink(ctx, link); err != nil {
		return domain.MagicLink{}, err
	}
	return link, nil
}

// ValidateMagicLink looks up a magic link by code and checks its expiry.
func (s *CodeService) ValidateMagicLink(ctx context.Context, code string) (domain.MagicLink, error) {
	link, err := s.Store.MagicLinks().GetMagicLinkByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return domain.MagicLink{}, ErrInvalidCode
	}
	if err != nil {
		return domain.MagicLink{}, err
	}
	if !link.ExpiresAt.After(s.now()) {
		return domain.MagicLink{}, ErrInvalidCode
	}
	return link, nil
}

// ConsumeMagicLink deletes a link after successful authentication.
func (s *CodeService) ConsumeMagicLink(ctx context.Context, link domain.MagicLink) error {
	err := s.Store.MagicLinks().DeleteMagicLink(ctx, link.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// MFAService implements two-phase TOTP enrollment: the secret is persisted
// on setup, but MFA only switches on once the user proves they can produce
// a valid code.
type MFAService struct {
	Store  store.Store
	Issuer string // issuer label shown in authenticator apps
}

// GenerateSetup starts (or resumes) TOTP enrollment for a user. If a secret
// is already stored but not yet confirmed, the same secret is returned so a
// retried setup doesn't break a QR code the user already scanned. The
// persist step is set-if-absent: under concurrent setup calls exactly one
// generated secret wins and every caller returns it.
func (s *MFAService) GenerateSetup(ctx context.Context, userID string) (domain.MFASetup, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.MFASetup{}, err
	}
	if u.MFAEnabled {
		return domain.MFASetup{}, ErrMFAAlreadyEnabled
	}

	secret := ""
	if u.MFASecret != nil {
		secret = *u.MFASecret
	}

	if secret == "" {
		key, err := totp.Generate(totp.GenerateOpts{
			Issuer:      s.Issuer,
			AccountName: u.Email,
			Period:      30,
			Digits:      otp.DigitsSix,
			Algorithm:   otp.AlgorithmSHA1,
		})
		if err != nil {
			return domain.MFASetup{}, fmt.Errorf("generate TOTP key: %w", err)
		}

		won, err := s.Store.Users().SetMFASecretIfAbsent(ctx, u.ID, key.Secret())
		if err != nil {
			return domain.MFASetup{}, fmt.Errorf("store MFA secret: %w", err)
		}
		if won {
			secret = key.Secret()
		} else {
			// Lost a concurrent enrollment race; use the stored secret.
			fresh, err := s.Store.Users().GetUserByID(ctx, u.ID)
			if err != nil {
				return domain.MFASetup{}, err
			}
			if fresh.MFASecret == nil || *fresh.MFASecret == "" {
				return domain.MFASetup{}, fmt.Errorf("MFA secret missing after conditional write")
			}
			secret = *fresh.MFASecret
		}
	}

	return domain.MFASetup{
		Secret:          secret,
		ProvisioningURI: s.provisioningURI(u.Email, secret),
	}, nil
}

// ConfirmSetup verifies the submitted code against the stored secret and
// enables MFA. Short-circuits when MFA is already on.
func (s *MFAService) ConfirmSetup(ctx context.Context, userID, code string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.MFAEnabled {
		return nil
	}
	if u.MFASecret == nil || *u.MFASecret == "" {
		return ErrMFANotEnabled
	}

	if !totp.Validate(code, *u.MFASecret) {
		return ErrInvalidMFACode
	}

	return s.Store.Users().EnableMFA(ctx, u.ID)
}

// Revoke clears the secret and disables MFA. Returns false without error
// when MFA was not enabled; revoking is reported, not treated as a failure.
func (s *MFAService) Revoke(ctx context.Context, userID string) (bool, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if !u.MFAEnabled {
		return false, nil
	}

	if err := s.Store.Users().DisableMFA(ctx, u.ID); err != nil {
		return false, err
	}
	return true, nil
}

// VerifyForLogin is the pure TOTP check used during the login flow. It takes
// the secret directly so callers that already hold the user don't re-fetch.
func (s *MFAService) VerifyForLogin(secret, code string) bool {
	return totp.Validate(code, secret)
}

// provisioningURI builds the otpauth:// URL from a stored secret, matching
// the parameters we enroll with.
func (s *MFAService) provisioningURI(account, secret string) string {
	label := url.PathEscape(s.Issuer + ":" + account)
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", s.Issuer)
	v.Set("algorithm", "SHA1")
	v.Set("digits", "6")
	v.Set("period", "30")
	return "otpauth://totp/" + label + "?" + v.Encode()
}

package authsdk

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// Client talks to the unauthenticated endpoints of the service. Successful
// authentication returns a Session for the rest of the API.
//
// The HTTP client carries a cookie jar: the refresh token only ever travels
// as an HttpOnly cookie, so the jar is what keeps a Session refreshable.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}
}

// Register creates a new account. The account starts unverified; a
// confirmation email is sent and login is refused until it is actioned.
func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	var out AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/register",
		RegisterRequest{Name: name, Email: email, Password: password},
		&out, http.StatusCreated, "")
	if err != nil {
		return nil, err
	}
	return out.User, nil
}

// Login authenticates with email and password. When the account has MFA
// enabled the returned Session is nil and AuthResponse.MFARequired is true;
// complete with LoginMFA.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, *AuthResponse, error) {
	var out AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login",
		LoginRequest{Email: email, Password: password},
		&out, http.StatusOK, "")
	if err != nil {
		return nil, nil, err
	}
	if out.MFARequired {
		return nil, &out, nil
	}
	return &Session{client: c, accessToken: out.AccessToken}, &out, nil
}

// LoginMFA completes a login that was answered with an MFA challenge.
func (c *Client) LoginMFA(ctx context.Context, email, code string) (*Session, error) {
	var out AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/mfa/login",
		MFALoginRequest{Email: email, Code: code},
		&out, http.StatusOK, "")
	if err != nil {
		return nil, err
	}
	return &Session{client: c, accessToken: out.AccessToken}, nil
}

// VerifyEmail submits an email-verification code.
func (c *Client) VerifyEmail(ctx context.Context, code string) (*User, error) {
	var out AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/verify-email",
		VerifyEmailRequest{Code: code}, &out, http.StatusOK, "")
	if err != nil {
		return nil, err
	}
	return out.User, nil
}

// ForgotPassword starts the password-reset flow for the given email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/password/forgot",
		ForgotPasswordRequest{Email: email}, nil, http.StatusOK, "")
}

// ResetPassword completes the password-reset flow. All existing sessions for
// the account are revoked.
func (c *Client) ResetPassword(ctx context.Context, password, code string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/password/reset",
		ResetPasswordRequest{Password: password, Code: code}, nil, http.StatusOK, "")
}

// SendMagicLink asks for a passwordless sign-in email.
func (c *Client) SendMagicLink(ctx context.Context, email string) (*MagicLinkResponse, error) {
	var out MagicLinkResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/magic/send",
		MagicLinkRequest{Email: email}, &out, http.StatusOK, "")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Livez returns the liveness status of the service.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &out, http.StatusOK, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// Readyz returns the readiness status of the service, including dependency
// checks. A degraded service yields an *APIError with status 503.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, &out, http.StatusOK, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

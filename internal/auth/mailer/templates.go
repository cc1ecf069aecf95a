package mailer

import "fmt"

// VerifyEmailMessage builds the account-confirmation email. The link points
// at the web frontend, which submits the code back to the API.
func VerifyEmailMessage(to, appOrigin, code string) Message {
	link := fmt.Sprintf("%s/confirm-account?code=%s", appOrigin, code)
	return Message{
		To:      to,
		Subject: "Confirm your account",
		Text:    "Confirm your account: " + link,
		HTML: fmt.Sprintf(
			`<p>Thanks for signing up. Click the link below to confirm your account.</p>
<p><a href=%q>Confirm account</a></p>
<p>This link expires shortly. If you did not create an account, you can ignore this email.</p>`,
			link),
	}
}

// PasswordResetMessage builds the password-reset email.
func PasswordResetMessage(to, appOrigin, code string) Message {
	link := fmt.Sprintf("%s/reset-password?code=%s", appOrigin, code)
	return Message{
		To:      to,
		Subject: "Reset your password",
		Text:    "Reset your password: " + link,
		HTML: fmt.Sprintf(
			`<p>We received a request to reset your password. Click the link below to choose a new one.</p>
<p><a href=%q>Reset password</a></p>
<p>If you did not request this, you can safely ignore this email.</p>`,
			link),
	}
}

// MagicLinkMessage builds the passwordless sign-in email. The callback URL
// hits the API directly, which then redirects into the frontend.
func MagicLinkMessage(to, callbackURL string) Message {
	return Message{
		To:      to,
		Subject: "Your sign-in link",
		Text:    "Sign in: " + callbackURL,
		HTML: fmt.Sprintf(
			`<p>Click the link below to sign in. It works once and expires in a few minutes.</p>
<p><a href=%q>Sign in</a></p>
<p>If you did not request this link, you can ignore this email.</p>`,
			callbackURL),
	}
}

// Package authsdk is a Go client for the Doorman authentication service.
//
// The SDK mirrors the HTTP API: a Client handles the unauthenticated flows
// (register, login, password reset, magic links) and hands out a Session
// once authentication succeeds. A Session carries the access token and the
// refresh cookie and exposes the authenticated endpoints.
//
// Basic usage:
//
//	client := authsdk.NewClient("https://auth.example.com")
//
//	session, err := client.Login(ctx, "user@example.com", "password")
//	if err != nil {
//		// handle error (check errors.As for *authsdk.APIError)
//	}
//
//	me, err := session.Me(ctx)
package authsdk

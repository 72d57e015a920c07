// Package common contains wire-level constants and sentinel errors shared by
// the admin client and the development backend.
package common

const (
	// AuthorizationHeader carries the bearer credential on outbound requests.
	AuthorizationHeader = "Authorization"

	// BearerPrefix precedes the access token in AuthorizationHeader.
	BearerPrefix = "Bearer "

	// RequestIDHeader correlates client and server log lines.
	RequestIDHeader = "X-Request-ID"

	// LoginEndpoint is the only endpoint that is called without a token.
	LoginEndpoint = "auth/admin-login"
)

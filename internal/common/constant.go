// Package common contains shared constants and sentinel errors used across
// ScholarScout components.
package common

const (
	// AuthorizationHeaderName carries the bearer token on outbound API requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token value in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName carries the per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"

	// TokenMetadataKey is the fixed key the session token is stored under.
	TokenMetadataKey = "access_token"
)

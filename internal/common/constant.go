// Package common contains shared constants and sentinel errors used across
// the auth client components.
package common

const (
	// AuthorizationHeaderName carries the bearer token on protected requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the raw token inside the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName tags every outbound request for log correlation.
	RequestIDHeaderName = "X-Request-Id"

	// CodeSuccess is the envelope code the backend uses for success.
	CodeSuccess = 200
)

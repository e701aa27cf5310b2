// Package common defines shared constants and sentinel errors used across
// client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Transport-level errors (network failure, undecodable response body).
	ErrTransport = errors.New("transport error")

	// Application-level errors reported by the backend envelope.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Token lifecycle errors.
	ErrRefreshNotNeeded = errors.New("token is not expiring soon")
	ErrMissingToken     = errors.New("response carries no token")
	ErrNotLoggedIn      = errors.New("not logged in")
)

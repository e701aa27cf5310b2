// Package client contains the client-side building blocks for talking to the
// authentication backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the AuthClient interface):
//     Login, Register, CurrentUser, ValidateToken, RefreshToken and the
//     username/phone/email availability checks.
//  2. A JSON-over-HTTP implementation (see HTTPClient) that issues exactly
//     one request per call and decodes the backend envelope into a typed
//     models.Response regardless of the HTTP status.
//  3. Expiry helpers (ExpiringSoon, IsTokenExpiringSoon, RefreshIfExpiring,
//     AutoRefreshToken) that decide whether a token should be refreshed.
//  4. Local persistence bootstrap utilities (InitDatabase, RunMigrations)
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap common.ErrTransport. A non-success envelope is a
// value, not an error: call Response.Unwrap to turn it into *models.APIError,
// which matches common.ErrUnauthorized and common.ErrForbidden with errors.Is.
//
// Concurrency & Contexts
//
// HTTPClient holds no mutable state and is safe for concurrent use. All
// network operations accept context.Context and honor cancellation.
package client

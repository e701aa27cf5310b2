// Package authmock provides an in-memory backend that speaks the
// authentication backend's JSON envelope protocol. Tests use it to exercise
// the client, the session service and the CLI without a real backend.
//
// Tokens are HS256 JWTs signed with a per-server secret. Individual routes
// can be replaced with Override to script failures.
package authmock

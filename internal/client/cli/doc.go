// Package cli provides the interactive command-line client for the
// authentication backend.
//
// It wires configuration, the SQLite token store, the HTTP API client and the
// session service into an interactive REPL. Typical flow: log in, call
// protected endpoints with the stored token, let the background refresher
// renew it before it expires, log out.
//
// Key features:
//   - Register / Login / Logout
//   - Current user and server-side token validation
//   - Manual and background token refresh
//   - Username, phone and email availability checks
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartTokenRefresher, and runREPL for details.
package cli

// Package models defines the request and response records exchanged with
// the authentication backend, and the generic response envelope.
package models

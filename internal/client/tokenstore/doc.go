// Package tokenstore persists the session token and its expiry as a pair of
// keys in a metadata.Repository.
package tokenstore

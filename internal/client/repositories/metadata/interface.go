// Package metadata provides the key/value storage capability behind the
// token store. Implementations must treat a missing key as (nil, nil) on Get,
// return a non-nil slice for a stored empty value and make Delete idempotent.
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all pairs or none of them.
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

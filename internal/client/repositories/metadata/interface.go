// Package metadata is the CLI's local key/value store. The session cache
// (username, bearer token) lives here between runs.
package metadata

import (
	"context"
)

// Repository stores opaque values by key. Get returns common.ErrorNotFound
// for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

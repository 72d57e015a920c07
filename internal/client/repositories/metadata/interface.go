package metadata

import (
	"context"
)

// Repository is a small key/value store backed by the metadata table.
// Get reports found=false (and no error) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
}

package metadata

import (
	"context"
)

// Repository is a flat key/value store for small opaque blobs. The list
// history lives under a single key of it.
type Repository interface {
	// Get returns the value stored under key, or (nil, nil) if there is none.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes value under key, replacing any previous value in one write.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Update reads the value under key, passes it to fn (nil if missing) and
	// writes fn's result back, all in one transaction. If fn returns an
	// error nothing is written.
	Update(ctx context.Context, key string, fn func(old []byte) ([]byte, error)) error
}

package storage

import "context"

// Store is a small durable key-value store. Values are opaque bytes; callers
// own their encoding.
type Store interface {
	// Get returns the value for key, or domain.ErrNotFound when it is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set creates or replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

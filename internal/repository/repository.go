package repository

import "context"

// KeyValueStore is the persistence collaborator: string values under string keys.
// Values are always written whole; there is no partial update.
type KeyValueStore interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error
	Close() error
}

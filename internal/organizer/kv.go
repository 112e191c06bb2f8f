package organizer

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KeyValue.Get when no value exists for a key.
var ErrKeyNotFound = errors.New("key not found")

// KeyValue is the external persistence collaborator. Each call independently
// succeeds or fails; there are no transactions across keys.
type KeyValue interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any prior value.
	Set(ctx context.Context, key string, value []byte) error
}

package testutil

import (
	"context"

	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/kvstore"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/organizer"
)

// NewTestKV creates a new in-memory key-value store for testing.
func NewTestKV() organizer.KeyValue {
	return kvstore.NewMemoryStore()
}

// FailingKV wraps a KeyValue and injects errors. Set GetErr or SetErr to make
// the corresponding call fail; nil fields pass through to the inner store.
type FailingKV struct {
	Inner  organizer.KeyValue
	GetErr error
	SetErr error
}

func (f *FailingKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	return f.Inner.Get(ctx, key)
}

func (f *FailingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.SetErr != nil {
		return f.SetErr
	}
	return f.Inner.Set(ctx, key, value)
}

var _ organizer.KeyValue = (*FailingKV)(nil)

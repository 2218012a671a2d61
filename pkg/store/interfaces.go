package store

import "context"

// CacheStore handles opaque blobs keyed by name.
type CacheStore interface {
	GetCache(ctx context.Context, key string) ([]byte, bool)
	HasCache(ctx context.Context, key string) (bool, error)
	SetCache(ctx context.Context, key string, val []byte) error
	DeleteCache(ctx context.Context, key string) error
}

// StateStore handles persistent application state.
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool)
	SetState(ctx context.Context, key, val string) error
	DeleteState(ctx context.Context, key string) error
	// SetStates writes all values in one transaction.
	SetStates(ctx context.Context, vals map[string]string) error
	ListStates(ctx context.Context, prefix string) (map[string]string, error)
}

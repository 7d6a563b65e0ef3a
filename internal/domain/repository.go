package domain

import (
	"context"
	"time"
)

// ProductStore is the read-only, ordered record store.
// All returns the records in source row order; callers may keep or modify the
// returned slice without affecting the store.
type ProductStore interface {
	All() []Product
	Len() int
}

// CacheRepository defines the interface for caching computed query results.
// Values are opaque encoded bytes.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

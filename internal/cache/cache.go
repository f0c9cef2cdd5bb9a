// Package cache persists schema graphs per CRM instance in a TTL'd key-value
// store, surviving process restarts.
package cache

import (
	"context"
	"time"
)

// Store is the durable key-value backend. Implementations must treat a zero
// ttl as "no backend expiry"; entry-level freshness is enforced by GraphCache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ErrCacheMiss is returned when a key is not found in the store.
type ErrCacheMiss struct {
	Key string
}

func (e ErrCacheMiss) Error() string {
	return "cache miss: " + e.Key
}

// IsCacheMiss checks if an error is a cache miss.
func IsCacheMiss(err error) bool {
	_, ok := err.(ErrCacheMiss)
	return ok
}

package domain

import (
	"context"
	"time"
)

// Cache is the volatile key-value store shared by the core components.
// Every value read from it has a store-backed fallback.
type Cache interface {
	// Get returns the value of key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key. A zero ttl keeps the key forever.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Increment atomically adds delta to key, creating it at delta when absent.
	Increment(ctx context.Context, key string, delta int64) (int64, error)

	// IncrementExisting adds delta only when key is already present.
	// ok is false and nothing is written when the key is absent.
	IncrementExisting(ctx context.Context, key string, delta int64) (val int64, ok bool, err error)

	// IncrementWindow adds delta and, when the increment created the key,
	// sets ttl on it. The first increment therefore opens a fixed window.
	IncrementWindow(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)
}

package kv

import (
	"context"
	"time"
)

// TypedKV wraps a KV store with JSON (de)serialization for a single value
// type and a key namespace. The dashboard keeps one per concern: UI state
// under "ui:", release lookups under the update checker's namespace.
type TypedKV[T any] struct {
	store  KV
	prefix string
}

// Scoped returns a TypedKV[T] that prefixes all keys with "namespace:".
func Scoped[T any](store KV, namespace string) *TypedKV[T] {
	return &TypedKV[T]{
		store:  store,
		prefix: namespace + ":",
	}
}

// Get retrieves and deserializes a value by key.
func (t *TypedKV[T]) Get(ctx context.Context, key string) (T, error) {
	var v T
	if err := t.store.Get(ctx, t.prefix+key, &v); err != nil {
		return v, err
	}
	return v, nil
}

// GetOr retrieves a value by key, returning fallback when the key is
// missing, expired, or unreadable. Use for state where a default is as
// good as the stored value.
func (t *TypedKV[T]) GetOr(ctx context.Context, key string, fallback T) T {
	v, err := t.Get(ctx, key)
	if err != nil {
		return fallback
	}
	return v
}

// Set stores a value with no expiry.
func (t *TypedKV[T]) Set(ctx context.Context, key string, value T) error {
	return t.store.Set(ctx, t.prefix+key, value)
}

// SetTTL stores a value that expires after the given duration.
func (t *TypedKV[T]) SetTTL(ctx context.Context, key string, value T, ttl time.Duration) error {
	return t.store.SetTTL(ctx, t.prefix+key, value, ttl)
}

// Package kv is the namespaced, expiring key-value store behind every piece
// of persisted client state. Each state container owns one namespace.
//
// Two backends exist: SQLite (the default, one file next to the binary's
// working directory) and Redis. Both treat an expired entry as absent.
package kv

import (
	"context"
	"time"
)

// Entry is one key/value pair. A zero ExpiresAt means the entry never expires.
type Entry struct {
	Key       string
	Value     []byte
	ExpiresAt time.Time
}

type Repository interface {
	// Get returns (nil, nil) when the key is missing or expired.
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Set(ctx context.Context, namespace, key string, value []byte, expiresAt time.Time) error
	// SetMany writes all entries or none.
	SetMany(ctx context.Context, namespace string, entries []Entry) error
	Delete(ctx context.Context, namespace string, keys ...string) error
	Clear(ctx context.Context, namespace string) error
}

// Package cache implements the cache-first read path used for hot
// relational queries: subjects, topics, mastery rollups and subscription
// snapshots. Values are JSON-serialized and disposable; the relational
// store stays authoritative.
package cache

import (
	"context"
	"time"
)

// Store is the key/value backend. Implementations must treat each
// operation as independently fallible: the backing relational store and
// the cache can fail separately, and callers are expected to survive
// cache failure.
type Store interface {
	// Get returns the raw value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set writes a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error

	// TrackKey registers a cache key as belonging to an owner (a user),
	// so all of the owner's entries can be invalidated together without
	// relying on backend pattern matching.
	TrackKey(ctx context.Context, ownerID, key string) error

	// InvalidateOwner deletes every tracked key of the owner plus the
	// tracking set itself.
	InvalidateOwner(ctx context.Context, ownerID string) error
}

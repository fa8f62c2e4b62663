// Package cache stores computed results and rendered artifacts.
//
// All backends implement [Cache]:
//
//   - [NullCache] never stores anything (--no-cache, tests)
//   - [FileCache] keeps entries under the user's cache directory (CLI)
//   - [RedisCache] shares entries between server instances (serve --redis)
//
// Keys come from a [Keyer] so that every backend agrees on them. Scene
// contents are hashed with [Hash]; a key changes whenever the scene or an
// option affecting the output changes.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	TTLResult   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with expiring entries.
type Cache interface {
	// Get returns the entry and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes the entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// NullCache misses on every Get and drops every Set.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

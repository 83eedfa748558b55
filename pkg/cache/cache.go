// Package cache stores rendered artifacts keyed by diagram content and
// render options.
//
// # Backends
//
//   - [FileCache]: JSON entries on disk, used by the CLI
//   - [RedisCache]: shared cache for the render service
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
// A [Keyer] derives keys from a content hash of the diagram ([Hash]) and
// the options that influence the output, so any change to either produces a
// new key. [ScopedKeyer] prefixes keys to separate namespaces sharing one
// backend.
package cache

import (
	"context"
	"time"
)

// Default lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with expiring entries. A miss is reported through
// the boolean, not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names reported by [BackendName].
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendCustom = "custom"
)

// BackendName reports which storage sits behind c. Implementations outside
// this package report BackendCustom.
func BackendName(c Cache) string {
	switch c.(type) {
	case nil, *NullCache:
		return BackendNone
	case *FileCache:
		return BackendFile
	case *RedisCache:
		return BackendRedis
	}
	return BackendCustom
}

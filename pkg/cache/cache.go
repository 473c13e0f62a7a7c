// Package cache provides response caching for the fare provider clients.
//
// Caching here is strictly an HTTP-saving measure: raw provider search
// responses are stored for a short TTL so that re-running a scan shortly
// after a previous one does not re-issue identical queries. Computed fare
// results are never cached; every run filters, dedupes and ranks from
// scratch.
//
// Backends:
//   - [FileCache]: per-user cache directory, the CLI default
//   - [RedisCache]: shared cache for scheduled runs across hosts
//   - [MongoCache]: TTL-indexed collection, for deployments already on Mongo
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"errors"
	"time"
)

// TTLSearch is how long raw provider search responses stay fresh. Fares
// move slowly enough that a few hours of staleness is acceptable for a
// watcher that runs daily.
const TTLSearch = 6 * time.Hour

// ErrUnavailable is returned when a cache backend cannot be reached.
// Callers treat it as a miss; caching is never load-bearing.
var ErrUnavailable = errors.New("cache unavailable")

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

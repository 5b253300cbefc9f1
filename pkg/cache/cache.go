// Package cache stores encoded artifacts and downloaded images between runs.
//
// A paint run is a pure function of its colors, canvas size and seed, so the
// encoded result can be reused verbatim. Keys come from a [Keyer]; values are
// opaque bytes with an optional TTL.
//
// Implementations:
//   - [FileCache]: one file per entry under a cache directory (CLI)
//   - [NullCache]: never stores anything (--no-cache, tests)
package cache

import (
	"context"
	"time"
)

// Default TTLs for the entry kinds the pipeline writes.
const (
	ArtifactTTL = 7 * 24 * time.Hour
	HTTPTTL     = 24 * time.Hour
)

// Cache is a byte store keyed by strings.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

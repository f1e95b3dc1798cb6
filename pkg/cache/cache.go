// Package cache provides response caching for expansion generation.
//
// Generator calls are the expensive, rate-limited part of building a graph:
// the same focus node in the same domain with the same claimed-ID context
// produces the same prompt, so responses are safe to reuse. The package
// defines a backend-agnostic [Cache] interface with three implementations:
//
//   - FileCache: directory-backed, for CLI usage
//   - RedisCache: shared cache for server deployments
//   - NullCache: caching disabled
//
// and a [Keyer] that derives stable SHA-256 cache keys from generation
// parameters.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	// TTLGeneration is how long generator responses are cached. Expansion
	// output for a fixed focus and context is stable enough to keep for a
	// week; operators can bypass with a refresh flag.
	TTLGeneration = 7 * 24 * time.Hour
)

// Cache is the interface all cache backends implement.
// Implementations must treat a missing key as a miss, not an error.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GenerationKeyOpts carries the parameters that distinguish otherwise
// identical generation requests.
type GenerationKeyOpts struct {
	// Model is the generator model identifier.
	Model string

	// ContextHash is a hash of the claimed element-ID set sent with the
	// request. Two expansions of the same focus against different graph
	// states must not share a cache entry: collision suffixes depend on it.
	ContextHash string
}

// Keyer generates cache keys for the different content types.
type Keyer interface {
	// GenerationKey generates a key for a generator response.
	GenerationKey(domain, focusID string, opts GenerationKeyOpts) string
}

// DefaultKeyer is the standard key generation strategy: a type prefix plus a
// SHA-256 hash of the parameters.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// GenerationKey generates a key for a generator response.
// Format: gen:hash(domain, focusID, model, contextHash)
func (k *DefaultKeyer) GenerationKey(domain, focusID string, opts GenerationKeyOpts) string {
	return hashKey("gen", domain, focusID, opts.Model, opts.ContextHash)
}

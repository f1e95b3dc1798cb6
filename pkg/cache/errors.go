package cache

import "errors"

// Sentinel errors for caching operations.
var (
	// ErrCacheMiss is returned by helpers that require a hit when an item is
	// not found in cache.
	ErrCacheMiss = errors.New("cache miss")
)

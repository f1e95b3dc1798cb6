// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about expansion execution, cache operations, and generator
// calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetExpansionHooks(&myExpansionHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Expansion().OnExpandStart(ctx, focusID)
//	// ... expand ...
//	observability.Expansion().OnExpandComplete(ctx, focusID, nodeCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Expansion Hooks
// =============================================================================

// ExpansionHooks receives events from the expansion pipeline.
type ExpansionHooks interface {
	// Expand events cover one full expansion operation.
	OnExpandStart(ctx context.Context, focusID string)
	OnExpandComplete(ctx context.Context, focusID string, nodeCount int, duration time.Duration, err error)

	// Sanitize events report how much of a payload survived.
	OnSanitizeComplete(ctx context.Context, focusID string, kept, dropped int)

	// Layout events
	OnLayoutComplete(ctx context.Context, focusID string, placed int, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Generator Hooks
// =============================================================================

// GeneratorHooks receives events from generator backend calls.
type GeneratorHooks interface {
	// OnRequest records an outgoing generation request.
	OnRequest(ctx context.Context, backend, model, focusID string)

	// OnResponse records a completed generation call.
	OnResponse(ctx context.Context, backend, model, focusID string, size int, duration time.Duration)

	// OnError records a failed generation call (network failure, timeout).
	OnError(ctx context.Context, backend, model, focusID string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopExpansionHooks is a no-op implementation of ExpansionHooks.
type NoopExpansionHooks struct{}

func (NoopExpansionHooks) OnExpandStart(context.Context, string) {}
func (NoopExpansionHooks) OnExpandComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopExpansionHooks) OnSanitizeComplete(context.Context, string, int, int)          {}
func (NoopExpansionHooks) OnLayoutComplete(context.Context, string, int, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopGeneratorHooks is a no-op implementation of GeneratorHooks.
type NoopGeneratorHooks struct{}

func (NoopGeneratorHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopGeneratorHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopGeneratorHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	expansionHooks ExpansionHooks = NoopExpansionHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	generatorHooks GeneratorHooks = NoopGeneratorHooks{}
	hooksMu        sync.RWMutex
)

// SetExpansionHooks registers custom expansion hooks.
// This should be called once at application startup before any expansions run.
func SetExpansionHooks(h ExpansionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		expansionHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetGeneratorHooks registers custom generator hooks.
// This should be called once at application startup before any generator calls.
func SetGeneratorHooks(h GeneratorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		generatorHooks = h
	}
}

// Expansion returns the registered expansion hooks.
func Expansion() ExpansionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return expansionHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Generator returns the registered generator hooks.
func Generator() GeneratorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return generatorHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	expansionHooks = NoopExpansionHooks{}
	cacheHooks = NoopCacheHooks{}
	generatorHooks = NoopGeneratorHooks{}
}

package generate

import (
	"context"
	"slices"
	"strings"

	"github.com/kotomap/kotomap/pkg/cache"
	"github.com/kotomap/kotomap/pkg/observability"
)

// CachedGenerator decorates a backend with response caching. Cache keys
// incorporate the domain, focus, model and a hash of the claimed element-ID
// set, so an expansion against a different graph state never reuses a stale
// response.
type CachedGenerator struct {
	inner  Generator
	cache  cache.Cache
	keyer  cache.Keyer
	domain string
	model  string

	// Refresh bypasses cache reads (writes still happen).
	Refresh bool
}

// NewCachedGenerator wraps a backend with the given cache. A nil keyer uses
// the default key strategy.
func NewCachedGenerator(inner Generator, c cache.Cache, keyer cache.Keyer, domain, model string) *CachedGenerator {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CachedGenerator{
		inner:  inner,
		cache:  c,
		keyer:  keyer,
		domain: domain,
		model:  model,
	}
}

// Expand implements [Generator].
func (g *CachedGenerator) Expand(ctx context.Context, req Request) ([]byte, error) {
	key := g.keyer.GenerationKey(g.domain, req.Focus.ID, cache.GenerationKeyOpts{
		Model:       g.model,
		ContextHash: ContextHash(req.ExistingElementIDs),
	})

	hooks := observability.Cache()
	if !g.Refresh {
		if data, ok, err := g.cache.Get(ctx, key); err == nil && ok {
			hooks.OnCacheHit(ctx, "gen")
			return data, nil
		}
		hooks.OnCacheMiss(ctx, "gen")
	}

	data, err := g.inner.Expand(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := g.cache.Set(ctx, key, data, cache.TTLGeneration); err == nil {
		hooks.OnCacheSet(ctx, "gen", len(data))
	}
	return data, nil
}

// ContextHash derives a stable hash from an element-ID set. Order does not
// matter: the IDs are sorted before hashing.
func ContextHash(ids []string) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return cache.Hash([]byte(strings.Join(sorted, "\x00")))
}

package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation. Shared
// backends (a Redis instance serving several applications) use this to keep
// generation keys from colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "kotomap:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GenerationKey generates a prefixed key for a generator response.
func (k *ScopedKeyer) GenerationKey(domain, focusID string, opts GenerationKeyOpts) string {
	return k.prefix + k.inner.GenerationKey(domain, focusID, opts)
}

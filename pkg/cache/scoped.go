package cache

// ScopedKeyer wraps a Keyer with a prefix so that projects sharing one
// backend keep separate namespaces.
//
// Example usage:
//
//	// Per-project keys on a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "project:riverside:")
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

// CompileKey generates a prefixed key for compiled artifact sets.
func (k *ScopedKeyer) CompileKey(scenarioHash string, opts CompileKeyOpts) string {
	return k.prefix + k.inner.CompileKey(scenarioHash, opts)
}

// FrameKey generates a prefixed key for frame summaries.
func (k *ScopedKeyer) FrameKey(frameHash string, wetThreshold float64) string {
	return k.prefix + k.inner.FrameKey(frameHash, wetThreshold)
}

package cache

// ScopedKeyer wraps a Keyer with a prefix so separate projects sharing one
// backend get isolated namespaces.
//
// Example usage:
//
//	// Per-project keys on a shared Redis
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "proj:amp-board:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. The prefix is prepended to
// all generated keys. A nil inner keyer falls back to the default scheme.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// NetlistKey generates a prefixed key for a compiled netlist.
func (k *ScopedKeyer) NetlistKey(manifestHash string) string {
	return k.prefix + k.inner.NetlistKey(manifestHash)
}

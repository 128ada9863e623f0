package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Server deployments use this when different catalogs or users need
// separate cache namespaces.
//
// Example usage:
//
//	// Catalog-specific keys
//	catalogKeyer := NewScopedKeyer(NewDefaultKeyer(), "catalog:quantum:")
//
//	// Global keys
//	globalKeyer := NewDefaultKeyer()
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// SceneKey generates a prefixed key for scene caching.
func (k *ScopedKeyer) SceneKey(sequenceHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(sequenceHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(sequenceHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sequenceHash, opts)
}

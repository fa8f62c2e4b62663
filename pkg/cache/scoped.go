package cache

// ScopedKeyer wraps a Keyer with a prefix. The HTTP server scopes its keys
// so that a Redis instance can be shared with other applications.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "floatplace:")
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

// ResultKey generates a prefixed key for result caching.
func (k *ScopedKeyer) ResultKey(sceneHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(sceneHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}

package cache

// ScopedKeyer prefixes every key of an inner Keyer, so that a
// [PrefixDeleter] can evict one scope without touching the others.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "layout:workbench:")
//	...
//	n, err := c.(PrefixDeleter).DeletePrefix(ctx, k.(*ScopedKeyer).Prefix())
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, falling back to DefaultKeyer when nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// Prefix returns the scope prefix.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

// FramesKey implements [Keyer].
func (k *ScopedKeyer) FramesKey(modelHash string, opts FramesKeyOpts) string {
	return k.prefix + k.inner.FramesKey(modelHash, opts)
}

// ArtifactKey implements [Keyer].
func (k *ScopedKeyer) ArtifactKey(framesHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(framesHash, opts)
}

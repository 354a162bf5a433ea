package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The server uses it to keep workspaces apart when they share one Redis.
//
// Example usage:
//
//	// Workspace-specific keys
//	wsKeyer := NewScopedKeyer(NewDefaultKeyer(), "ws:"+workspace+":")
//
//	// Global keys for stateless shape rendering
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

// ShapeKey generates a prefixed key for shape geometry caching.
func (k *ScopedKeyer) ShapeKey(id string, opts ShapeKeyOpts) string {
	return k.prefix + k.inner.ShapeKey(id, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(pageHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(pageHash, opts)
}

// PageKey generates a prefixed key for page caching.
func (k *ScopedKeyer) PageKey(workspace, pageID string) string {
	return k.prefix + k.inner.PageKey(workspace, pageID)
}

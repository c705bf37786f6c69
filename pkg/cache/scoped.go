package cache

// ScopedKeyer wraps a Keyer with a prefix so responses fetched with
// different credentials never share entries. An authenticated GitHub search
// can include private repositories; scoping its keys by token keeps those
// out of anonymous lookups on a shared backend.
//
//	scoped := NewScopedKeyer(NewDefaultKeyer(), "token:"+Hash([]byte(tok))[:12]+":")
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

// ReadmeKey generates a prefixed key for documentation caching.
func (k *ScopedKeyer) ReadmeKey(source, fullName string) string {
	return k.prefix + k.inner.ReadmeKey(source, fullName)
}

// SearchKey generates a prefixed key for search result caching.
func (k *ScopedKeyer) SearchKey(query string, sources []string, deep bool) string {
	return k.prefix + k.inner.SearchKey(query, sources, deep)
}

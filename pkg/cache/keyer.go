package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// Default time-to-live values per payload kind.
const (
	TTLSearch  = 15 * time.Minute
	TTLPackage = 6 * time.Hour
	TTLReadme  = 24 * time.Hour
)

// Keyer builds cache keys. Implementations must be deterministic.
type Keyer interface {
	// HTTPKey keys a raw registry response.
	HTTPKey(namespace, key string) string
	// ReadmeKey keys retrieved documentation for a project.
	ReadmeKey(source, fullName string) string
	// SearchKey keys an aggregated, ranked search response.
	SearchKey(query string, sources []string, deep bool) string
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// ReadmeKey returns "readme:<source>:<fullName>".
func (DefaultKeyer) ReadmeKey(source, fullName string) string {
	return "readme:" + source + ":" + strings.ToLower(fullName)
}

// SearchKey hashes the normalized query and the sorted source set, so
// selection order does not fragment the cache.
func (DefaultKeyer) SearchKey(query string, sources []string, deep bool) string {
	srcs := slices.Clone(sources)
	slices.Sort(srcs)
	return hashKey("search", strings.ToLower(strings.TrimSpace(query)), srcs, deep)
}

var _ Keyer = DefaultKeyer{}

// hashKey returns "prefix:<sha256 of the JSON-encoded parts>".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. Token-scoped keyers use a prefix
// of it so credentials never appear in keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

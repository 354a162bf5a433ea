// Package cache provides the byte cache used by the render pipeline and the
// HTTP API.
//
// # Backends
//
//   - [FileCache]: JSON entries with expiry in a sharded directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the server
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] builds cache keys from request parameters so that every input
// that changes the output also changes the key. [ScopedKeyer] prefixes keys
// to keep tenants or workspaces apart in a shared backend.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Default entry lifetimes.
const (
	// TTLShape is how long hexagon geometry is kept.
	TTLShape = 7 * 24 * time.Hour
	// TTLArtifact is how long rendered pages are kept.
	TTLArtifact = 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss with ok == false and a nil error; errors are reserved
// for backend failures. A ttl of zero or less stores without expiry.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NullCache stores nothing. It backs `backend = "none"`, the CLI's
// --no-cache flag and a Runner built without a cache, so every render
// starts from a miss.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

// Keyer builds cache keys for pipeline results.
type Keyer interface {
	// ShapeKey is the key of a single hexagon's geometry and paths.
	ShapeKey(id string, opts ShapeKeyOpts) string
	// ArtifactKey is the key of a rendered page in one output format.
	ArtifactKey(pageHash string, opts ArtifactKeyOpts) string
	// PageKey is the key of a page loaded from the block store.
	PageKey(workspace, pageID string) string
}

// ShapeKeyOpts are the inputs that determine a hexagon's output.
type ShapeKeyOpts struct {
	W, H     float64
	Offset   float64
	Rotation float64
	Color    string
	Size     string
	Dash     string
	Filled   bool
}

// ArtifactKeyOpts are the render settings that determine an artifact.
type ArtifactKeyOpts struct {
	Format     string
	Indicators bool
	Labels     bool
	Scale      float64
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ShapeKey hashes the shape id together with every option.
func (DefaultKeyer) ShapeKey(id string, opts ShapeKeyOpts) string {
	return hashKey("shape", id, opts)
}

// ArtifactKey hashes the page hash together with the render settings.
func (DefaultKeyer) ArtifactKey(pageHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", pageHash, opts)
}

// PageKey joins the workspace and page id.
func (DefaultKeyer) PageKey(workspace, pageID string) string {
	return "page:" + workspace + ":" + pageID
}

// Hash returns the hex SHA-256 of data. Pages are identified by the hash of
// their JSON, which also serves as the HTTP ETag.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey joins kind with the hash of the JSON-encoded parts.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}

var (
	_ Keyer = DefaultKeyer{}
	_ Cache = NullCache{}
)

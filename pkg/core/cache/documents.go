package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/msto63/forsure/foundation/forsure/tree"
)

// DocumentCache caches parsed documents by the hash of their source text,
// so unchanged input is not parsed twice. Cached documents are shared and
// must not be modified.
type DocumentCache struct {
	cache *Cache
}

// NewDocumentCache creates a document cache
func NewDocumentCache(cfg Config) *DocumentCache {
	return &DocumentCache{cache: New(cfg)}
}

// DocumentKey returns the cache key for source text
func DocumentKey(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// Parse returns the cached document for source, or calls parse and caches
// its result. Parse errors are not cached. hit reports a cache hit.
func (d *DocumentCache) Parse(source []byte, parse func(string) (*tree.Document, error)) (doc *tree.Document, hit bool, err error) {
	hit = true
	v, err := d.cache.GetOrSet(DocumentKey(source), func() (interface{}, error) {
		hit = false
		return parse(string(source))
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*tree.Document), hit, nil
}

// Invalidate drops every cached document. The watcher calls it when the
// watched file is removed or renamed away.
func (d *DocumentCache) Invalidate() {
	d.cache.Clear()
}

// Stats returns hit and miss counts
func (d *DocumentCache) Stats() (hits, misses int64) {
	hits, misses, _ = d.cache.Stats()
	return hits, misses
}

// Close releases the cache's background goroutine
func (d *DocumentCache) Close() {
	d.cache.Close()
}

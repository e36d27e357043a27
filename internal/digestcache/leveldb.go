// Package digestcache fronts the files table with a fast local
// path-to-digest lookup so an unchanged file never costs a SQL round-trip:
// the index service asks the cache first and only falls through to sqlite (via
// the repository) on a miss or a digest mismatch.
package digestcache

import (
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
)

// Cache is a persistent path -> digest KV store backed by goleveldb, kept
// alongside the sqlite index but queried far more often: it is consulted
// once per scanned file, while sqlite is only touched for files whose
// digest actually changed.
type Cache struct {
	db *leveldb.DB
}

// Open opens (creating if absent) the leveldb store rooted at dir.
func Open(dir string) (*Cache, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying leveldb handles.
func (c *Cache) Close() error { return c.db.Close() }

// Get returns the cached digest for path, and false if path has never been
// recorded.
func (c *Cache) Get(path string) (string, bool, error) {
	v, err := c.db.Get([]byte(path), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(v), true, nil
}

// Put records path's current digest, overwriting any previous value.
func (c *Cache) Put(path, digest string) error {
	return c.db.Put([]byte(path), []byte(digest), nil)
}

// Delete removes path's cached digest, used when a scan finds the file has
// been removed from disk.
func (c *Cache) Delete(path string) error {
	return c.db.Delete([]byte(path), nil)
}

// Unchanged reports whether path's cached digest equals digest — the
// driver's fast-path check before it ever queries sqlite or re-runs the
// pipeline.
func (c *Cache) Unchanged(path, digest string) bool {
	cached, ok, err := c.Get(path)
	if err != nil || !ok {
		return false
	}
	return cached == digest
}

package digestcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheGetMissingPath(t *testing.T) {
	c := openTestCache(t)
	_, ok, err := c.Get("nope.c")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCachePutGetRoundTrip(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.Put("a.c", "deadbeef"))
	got, ok, err := c.Get("a.c")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "deadbeef", got)
}

func TestCacheUnchanged(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.Put("a.c", "deadbeef"))
	assert.True(t, c.Unchanged("a.c", "deadbeef"))
	assert.False(t, c.Unchanged("a.c", "other"))
	assert.False(t, c.Unchanged("never-seen.c", "deadbeef"))
}

func TestCacheDelete(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.Put("a.c", "deadbeef"))
	require.NoError(t, c.Delete("a.c"))
	_, ok, err := c.Get("a.c")
	require.NoError(t, err)
	assert.False(t, ok)
}

package daylog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheWriteCreatesAndAppends(t *testing.T) {
	cache := newHandleCache()
	path := filepath.Join(t.TempDir(), "2024-03-18-all.log")

	created, err := cache.write(path, []byte("first\n"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = cache.write(path, []byte("second\n"))
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, 1, cache.size())

	require.Empty(t, cache.closeAll())
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(content))
}

func TestCacheWriteMissingDirectory(t *testing.T) {
	cache := newHandleCache()
	path := filepath.Join(t.TempDir(), "missing", "2024-03-18-all.log")

	created, err := cache.write(path, []byte("data\n"))
	assert.False(t, created)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open log file")
	assert.Equal(t, 0, cache.size())
}

func TestCacheRotate(t *testing.T) {
	cache := newHandleCache()
	path := filepath.Join(t.TempDir(), "2024-03-18-all.log")

	_, err := cache.write(path, []byte("before\n"))
	require.NoError(t, err)

	require.NoError(t, cache.rotate(path))
	assert.Equal(t, 0, cache.size())

	// A later write to the same path transparently reopens it
	created, err := cache.write(path, []byte("after\n"))
	require.NoError(t, err)
	assert.True(t, created)

	cache.closeAll()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "before\nafter\n", string(content))
}

func TestCacheRotateUnknownPath(t *testing.T) {
	cache := newHandleCache()
	assert.NoError(t, cache.rotate("/nowhere/2024-03-18-all.log"))
}

func TestCacheEvictStale(t *testing.T) {
	cache := newHandleCache()
	dir := t.TempDir()

	now := time.Date(2024, 3, 18, 0, 30, 0, 0, time.UTC)
	todayPath := filepath.Join(dir, "2024-03-18-all.log")
	yesterdayPath := filepath.Join(dir, "2024-03-17-all.log")
	yesterdayError := filepath.Join(dir, "2024-03-17-error.log")
	unrelated := filepath.Join(dir, "notes.log")

	for _, p := range []string{todayPath, yesterdayPath, yesterdayError, unrelated} {
		_, err := cache.write(p, []byte("x\n"))
		require.NoError(t, err)
	}

	stale, errs := cache.evictStale(now)
	assert.Empty(t, errs)
	assert.ElementsMatch(t, []string{yesterdayPath, yesterdayError}, stale)

	// Today's handle and the unmanaged name stay open
	assert.Equal(t, 2, cache.size())

	stale, errs = cache.evictStale(now)
	assert.Empty(t, stale)
	assert.Empty(t, errs)

	cache.closeAll()
}

func TestCacheSyncAll(t *testing.T) {
	cache := newHandleCache()
	dir := t.TempDir()

	_, err := cache.write(filepath.Join(dir, "2024-03-18-all.log"), []byte("a\n"))
	require.NoError(t, err)
	_, err = cache.write(filepath.Join(dir, "2024-03-18-error.log"), []byte("b\n"))
	require.NoError(t, err)

	assert.Empty(t, cache.syncAll())
	assert.Equal(t, 2, cache.size())

	cache.closeAll()
}

func TestCacheCloseAll(t *testing.T) {
	cache := newHandleCache()
	dir := t.TempDir()

	paths := []string{
		filepath.Join(dir, "2024-03-18-all.log"),
		filepath.Join(dir, "2024-03-18-error.log"),
		filepath.Join(dir, "2024-03-17-all.log"),
	}
	for _, p := range paths {
		_, err := cache.write(p, []byte("data\n"))
		require.NoError(t, err)
	}

	assert.Empty(t, cache.closeAll())
	assert.Equal(t, 0, cache.size())

	for _, p := range paths {
		content, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, "data\n", string(content))
	}
}

package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	k := CacheKey("sqrt(8)", "50")
	assert.True(t, strings.HasPrefix(k, "ametrine:v1:"))
	assert.Len(t, k, len("ametrine:v1:")+64)
	assert.Equal(t, k, CacheKey("sqrt(8)", "50"))
	assert.NotEqual(t, CacheKey("ab", "c"), CacheKey("a", "bc"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".ametrine", "cache"), ExpandPath("~/.ametrine/cache"))
	assert.Equal(t, "/tmp/x", ExpandPath("/tmp/x"))
	assert.Equal(t, "rel/~", ExpandPath("rel/~"))
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	require.NoError(t, c.Set("k", []byte("v"), 0))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)

	require.NoError(t, c.Set("a", []byte("1"), -1))
	require.NoError(t, c.Clear())
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	require.NoError(t, c.Set("k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDiskCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewDiskCache(dir, time.Hour)

	_, ok := c.Get("ametrine:v1:abc")
	assert.False(t, ok)

	require.NoError(t, c.Set("ametrine:v1:abc", []byte(`{"value":"1/3"}`), 0))
	got, ok := c.Get("ametrine:v1:abc")
	require.True(t, ok)
	assert.JSONEq(t, `{"value":"1/3"}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ametrine_v1_abc.json", entries[0].Name())

	require.NoError(t, c.Delete("ametrine:v1:abc"))
	require.NoError(t, c.Delete("ametrine:v1:abc"))
	_, ok = c.Get("ametrine:v1:abc")
	assert.False(t, ok)
}

func TestDiskCache_RejectsNonJSON(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	assert.Error(t, c.Set("k", []byte("not json"), 0))
}

func TestDiskCache_Expired(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	require.NoError(t, c.Set("k", []byte(`1`), time.Minute))
	_, ok := c.Get("k")
	require.True(t, ok)

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, ok = c.Get("k")
	assert.False(t, ok)

	_, err := os.Stat(c.path("k"))
	assert.True(t, os.IsNotExist(err), "expired entry should be removed")
}

func TestLayeredCache(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	_, ok := c.Get("k")
	assert.False(t, ok)

	require.NoError(t, c.Set("k", []byte(`{"a":1}`), 0))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(got))

	// A fresh layered cache over the same directory finds it on disk
	// and promotes it.
	c2 := NewLayeredCache(time.Minute, dir, time.Hour)
	got, ok = c2.Get("k")
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(got))
	_, ok = c2.memory.Get("k")
	assert.True(t, ok)

	assert.Equal(t, Stats{Hits: 1, Misses: 1}, c.Stats())

	require.NoError(t, c.Clear())
	_, ok = c.Get("k")
	assert.False(t, ok)
}

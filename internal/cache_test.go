package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/gnolang/parseit/internal/types"
)

func TestCache(t *testing.T) {
	tmpDir := t.TempDir()
	cacheDir := filepath.Join(tmpDir, "cache")
	cache, err := NewCache(cacheDir)
	require.NoError(t, err)

	content := []byte("call foo(a);\n")
	matches := []tt.Match{
		{
			Rule:     "test-rule",
			Filename: "test.txt",
			Message:  "test match",
			Text:     "call foo(a);",
			Captures: []string{"foo", "a"},
			Start:    tt.Position{Line: 1, Column: 1},
			End:      tt.Position{Offset: 12, Line: 1, Column: 13},
		},
	}

	t.Run("SaveAndLoad", func(t *testing.T) {
		require.NoError(t, cache.Set("test.txt", content, 42, matches))

		loaded, found := cache.Get("test.txt", content, 42)
		assert.True(t, found)
		assert.Equal(t, matches, loaded)

		reopened, err := NewCache(cacheDir)
		require.NoError(t, err)
		loaded, found = reopened.Get("test.txt", content, 42)
		assert.True(t, found)
		assert.Equal(t, matches, loaded)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, found := cache.Get("nonexistent.txt", content, 42)
		assert.False(t, found)
	})

	t.Run("ContentModified", func(t *testing.T) {
		require.NoError(t, cache.Set("modified.txt", content, 42, matches))
		_, found := cache.Get("modified.txt", []byte("other"), 42)
		assert.False(t, found)

		// invalid entries are dropped
		_, found = cache.Get("modified.txt", content, 42)
		assert.False(t, found)
	})

	t.Run("FingerprintChanged", func(t *testing.T) {
		require.NoError(t, cache.Set("rules.txt", content, 1, matches))
		_, found := cache.Get("rules.txt", content, 2)
		assert.False(t, found)
	})

	t.Run("Expired", func(t *testing.T) {
		require.NoError(t, cache.Set("old.txt", content, 42, matches))
		cache.mutex.Lock()
		entry := cache.entries["old.txt"]
		entry.CreatedAt = time.Now().Add(-2 * DefaultCacheMaxAge)
		cache.entries["old.txt"] = entry
		cache.mutex.Unlock()

		_, found := cache.Get("old.txt", content, 42)
		assert.False(t, found)
	})
}

func TestCacheDependencies(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	cache, err := NewCache(filepath.Join(tmpDir, "cache"))
	require.NoError(t, err)
	cache.SetMaxAge(0)

	cfg := filepath.Join(tmpDir, ".parseit.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("name: a\n"), 0o644))
	require.NoError(t, cache.SetDependencies(cfg))

	content := []byte("x")
	require.NoError(t, cache.Set("f.txt", content, 7, nil))
	_, found := cache.Get("f.txt", content, 7)
	assert.True(t, found)

	require.NoError(t, os.WriteFile(cfg, []byte("name: b\n"), 0o644))
	_, found = cache.Get("f.txt", content, 7)
	assert.False(t, found)

	assert.Error(t, cache.SetDependencies(filepath.Join(tmpDir, "missing.yaml")))
}

func TestCacheInvalidateAll(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	require.NoError(t, cache.Set("a", []byte("a"), 1, nil))
	require.NoError(t, cache.Set("b", []byte("b"), 1, nil))
	assert.Equal(t, 2, cache.Len())

	cache.InvalidateAll()
	assert.Equal(t, 0, cache.Len())
}

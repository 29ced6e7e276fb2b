package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	cacheDir := t.TempDir()
	cache, err := New(cacheDir)
	require.NoError(t, err)

	src := []byte("abc(), <p ~a=\"\"/>")
	hash := Hash(src, "pkg=views")

	t.Run("SaveAndLoad", func(t *testing.T) {
		err := cache.Set("views.mixin", hash, []byte("package views\n"), 1)
		require.NoError(t, err)

		entry, found := cache.Get("views.mixin", hash)
		assert.True(t, found)
		assert.Equal(t, []byte("package views\n"), entry.Output)
		assert.Equal(t, 1, entry.Mixins)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, found := cache.Get("nonexistent.mixin", hash)
		assert.False(t, found)
	})

	t.Run("SourceModified", func(t *testing.T) {
		require.NoError(t, cache.Set("modified.mixin", hash, []byte("x"), 1))

		changed := Hash([]byte("abc(), <p ~b=\"\"/>"), "pkg=views")
		_, found := cache.Get("modified.mixin", changed)
		assert.False(t, found)
	})

	t.Run("SettingsChanged", func(t *testing.T) {
		assert.NotEqual(t, Hash(src, "pkg=views"), Hash(src, "pkg=other"))
	})

	t.Run("PersistAcrossInstances", func(t *testing.T) {
		require.NoError(t, cache.Set("persist.mixin", hash, []byte("y"), 2))

		reopened, err := New(cacheDir)
		require.NoError(t, err)
		entry, found := reopened.Get("persist.mixin", hash)
		assert.True(t, found)
		assert.Equal(t, 2, entry.Mixins)
	})

	t.Run("Expired", func(t *testing.T) {
		require.NoError(t, cache.Set("old.mixin", hash, []byte("z"), 1))
		cache.SetMaxAge(time.Nanosecond)
		defer cache.SetMaxAge(0)

		time.Sleep(time.Millisecond)
		_, found := cache.Get("old.mixin", hash)
		assert.False(t, found)
	})

	t.Run("InvalidateAll", func(t *testing.T) {
		require.NoError(t, cache.Set("a.mixin", hash, []byte("a"), 1))
		require.NoError(t, cache.InvalidateAll())

		_, found := cache.Get("a.mixin", hash)
		assert.False(t, found)
	})
}

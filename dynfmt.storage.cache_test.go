package dynfmt

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedStorage(t *testing.T) {
	runStorageConformance(t, func(t *testing.T) DictionaryStorage {
		return NewCachedStorage(NewMemoryStorage(), DefaultCacheConfig())
	})
}

func TestCachedStorage_DefaultConfig(t *testing.T) {
	config := DefaultCacheConfig()
	assert.Equal(t, CacheDefaultTTL, config.TTL)
	assert.Equal(t, CacheDefaultMaxEntries, config.MaxEntries)
	assert.Equal(t, CacheDefaultNegativeCacheTTL, config.NegativeCacheTTL)

	cached := NewCachedStorage(NewMemoryStorage(), CacheConfig{})
	assert.Equal(t, CacheDefaultTTL, cached.config.TTL)
	assert.Equal(t, CacheDefaultMaxEntries, cached.config.MaxEntries)
	assert.Zero(t, cached.config.NegativeCacheTTL)
}

func TestCachedStorage_Get(t *testing.T) {
	storage := NewMemoryStorage()
	cached := NewCachedStorage(storage, CacheConfig{
		TTL:              time.Hour,
		MaxEntries:       100,
		NegativeCacheTTL: time.Hour,
	})
	defer cached.Close()

	ctx := context.Background()
	require.NoError(t, storage.Save(ctx, &StoredDictionary{Name: "d", Entries: map[string]string{"k": "original"}}))

	t.Run("caches on first read", func(t *testing.T) {
		dict, err := cached.Get(ctx, "d")
		require.NoError(t, err)
		assert.Equal(t, "original", dict.Entries["k"])
		assert.Equal(t, 1, cached.Stats().ValidEntries)
	})

	t.Run("serves the cached value", func(t *testing.T) {
		require.NoError(t, storage.Save(ctx, &StoredDictionary{Name: "d", Entries: map[string]string{"k": "modified"}}))

		dict, err := cached.Get(ctx, "d")
		require.NoError(t, err)
		assert.Equal(t, "original", dict.Entries["k"])
	})

	t.Run("caches not found", func(t *testing.T) {
		_, err := cached.Get(ctx, "missing")
		require.True(t, IsNotFound(err))
		assert.Equal(t, 1, cached.Stats().NegativeEntries)

		require.NoError(t, storage.Save(ctx, &StoredDictionary{Name: "missing"}))
		_, err = cached.Get(ctx, "missing")
		assert.True(t, IsNotFound(err))

		ok, err := cached.Exists(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("counts hits and misses", func(t *testing.T) {
		stats := cached.Stats()
		assert.Equal(t, int64(2), stats.Hits)
		assert.Equal(t, int64(2), stats.Misses)
	})
}

func TestCachedStorage_NegativeCacheDisabled(t *testing.T) {
	storage := NewMemoryStorage()
	cached := NewCachedStorage(storage, CacheConfig{TTL: time.Hour})
	defer cached.Close()

	ctx := context.Background()
	_, err := cached.Get(ctx, "later")
	require.True(t, IsNotFound(err))
	assert.Equal(t, 0, cached.Stats().Entries)

	require.NoError(t, storage.Save(ctx, &StoredDictionary{Name: "later"}))
	_, err = cached.Get(ctx, "later")
	assert.NoError(t, err)
}

func TestCachedStorage_TTL(t *testing.T) {
	storage := NewMemoryStorage()
	cached := NewCachedStorage(storage, CacheConfig{
		TTL:              50 * time.Millisecond,
		MaxEntries:       100,
		NegativeCacheTTL: 50 * time.Millisecond,
	})
	defer cached.Close()

	ctx := context.Background()
	require.NoError(t, storage.Save(ctx, &StoredDictionary{Name: "d", Entries: map[string]string{"k": "original"}}))

	dict, err := cached.Get(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, "original", dict.Entries["k"])

	require.NoError(t, storage.Save(ctx, &StoredDictionary{Name: "d", Entries: map[string]string{"k": "modified"}}))
	time.Sleep(100 * time.Millisecond)

	dict, err = cached.Get(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, "modified", dict.Entries["k"])
}

func TestCachedStorage_MaxEntries(t *testing.T) {
	storage := NewMemoryStorage()
	cached := NewCachedStorage(storage, CacheConfig{TTL: time.Hour, MaxEntries: 3})
	defer cached.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, storage.Save(ctx, &StoredDictionary{Name: fmt.Sprintf("d%d", i)}))
	}
	for i := 0; i < 5; i++ {
		_, err := cached.Get(ctx, fmt.Sprintf("d%d", i))
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	stats := cached.Stats()
	assert.Equal(t, 3, stats.Entries)

	// the two least recently accessed entries were evicted
	cached.mu.Lock()
	_, hasOldest := cached.cache["d0"]
	_, hasNewest := cached.cache["d4"]
	cached.mu.Unlock()
	assert.False(t, hasOldest)
	assert.True(t, hasNewest)
}

func TestCachedStorage_WritesInvalidate(t *testing.T) {
	storage := NewMemoryStorage()
	cached := NewCachedStorage(storage, CacheConfig{TTL: time.Hour, NegativeCacheTTL: time.Hour})
	defer cached.Close()

	ctx := context.Background()
	require.NoError(t, cached.Save(ctx, &StoredDictionary{Name: "d", Entries: map[string]string{"k": "1"}}))
	_, err := cached.Get(ctx, "d")
	require.NoError(t, err)

	require.NoError(t, cached.Save(ctx, &StoredDictionary{Name: "d", Entries: map[string]string{"k": "2"}}))
	dict, err := cached.Get(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, "2", dict.Entries["k"])

	require.NoError(t, cached.Delete(ctx, "d"))
	_, err = cached.Get(ctx, "d")
	assert.True(t, IsNotFound(err))
}

func TestCachedStorage_Invalidate(t *testing.T) {
	storage := NewMemoryStorage()
	cached := NewCachedStorage(storage, CacheConfig{TTL: time.Hour})
	defer cached.Close()

	ctx := context.Background()
	for _, name := range []string{"a", "b"} {
		require.NoError(t, storage.Save(ctx, &StoredDictionary{Name: name}))
		_, err := cached.Get(ctx, name)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cached.Stats().Entries)

	cached.Invalidate("a")
	assert.Equal(t, 1, cached.Stats().Entries)

	cached.InvalidateAll()
	assert.Equal(t, 0, cached.Stats().Entries)
}

func TestCachedStorage_Close(t *testing.T) {
	cached := NewCachedStorage(NewMemoryStorage(), DefaultCacheConfig())
	require.NoError(t, cached.Close())

	_, err := cached.Exists(context.Background(), "x")
	assert.True(t, IsStorageClosed(err))
}

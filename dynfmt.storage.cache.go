package dynfmt

import (
	"context"
	"sync"
	"time"
)

// CachedStorage wraps any DictionaryStorage with in-memory caching of Get
// results, including negative ("not found") results.
type CachedStorage struct {
	storage DictionaryStorage
	config  CacheConfig

	mu     sync.Mutex
	cache  map[string]*cacheEntry
	hits   int64
	misses int64
	closed bool
}

// CacheConfig configures the caching behavior.
type CacheConfig struct {
	// TTL is how long cached entries remain valid.
	// Default: 5 minutes.
	TTL time.Duration

	// MaxEntries is the maximum number of cached dictionaries.
	// When exceeded, the least recently accessed entry is evicted.
	// Default: 1000.
	MaxEntries int

	// NegativeCacheTTL is how long to cache "not found" results.
	// Set to 0 to disable negative caching.
	// Default: 30 seconds.
	NegativeCacheTTL time.Duration
}

// DefaultCacheConfig returns the default caching configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:              CacheDefaultTTL,
		MaxEntries:       CacheDefaultMaxEntries,
		NegativeCacheTTL: CacheDefaultNegativeCacheTTL,
	}
}

type cacheEntry struct {
	dict       *StoredDictionary
	notFound   bool
	cachedAt   time.Time
	accessedAt time.Time
}

// CacheStats contains cache statistics.
type CacheStats struct {
	Entries         int
	ValidEntries    int
	NegativeEntries int
	Hits            int64
	Misses          int64
}

// NewCachedStorage wraps a storage with caching.
func NewCachedStorage(storage DictionaryStorage, config CacheConfig) *CachedStorage {
	if config.TTL == 0 {
		config.TTL = CacheDefaultTTL
	}
	if config.MaxEntries == 0 {
		config.MaxEntries = CacheDefaultMaxEntries
	}

	return &CachedStorage{
		storage: storage,
		config:  config,
		cache:   make(map[string]*cacheEntry),
	}
}

var _ DictionaryStorage = (*CachedStorage)(nil)

// Get retrieves a dictionary, using the cache when available.
func (s *CachedStorage) Get(ctx context.Context, name string) (*StoredDictionary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, NewStorageClosedError()
	}
	if entry, ok := s.cache[name]; ok && s.isValid(entry) {
		entry.accessedAt = time.Now()
		s.hits++
		s.mu.Unlock()

		if entry.notFound {
			return nil, NewDictionaryNotFoundError(name)
		}
		return copyStoredDictionary(entry.dict), nil
	}
	s.misses++
	s.mu.Unlock()

	dict, err := s.storage.Get(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	if err != nil {
		if IsNotFound(err) && s.config.NegativeCacheTTL > 0 {
			s.addEntry(name, nil, true)
		}
		return nil, err
	}

	s.addEntry(name, copyStoredDictionary(dict), false)
	return dict, nil
}

// Save stores a dictionary and invalidates its cache entry.
func (s *CachedStorage) Save(ctx context.Context, dict *StoredDictionary) error {
	if err := s.storage.Save(ctx, dict); err != nil {
		return err
	}
	s.Invalidate(dict.Name)
	return nil
}

// Delete removes a dictionary and invalidates its cache entry.
func (s *CachedStorage) Delete(ctx context.Context, name string) error {
	if err := s.storage.Delete(ctx, name); err != nil {
		return err
	}
	s.Invalidate(name)
	return nil
}

// List returns dictionaries matching the query (bypasses cache).
func (s *CachedStorage) List(ctx context.Context, query *DictionaryQuery) ([]*StoredDictionary, error) {
	return s.storage.List(ctx, query)
}

// Exists checks if a dictionary exists, answering from cache when possible.
func (s *CachedStorage) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, NewStorageClosedError()
	}
	if entry, ok := s.cache[name]; ok && s.isValid(entry) {
		s.mu.Unlock()
		return !entry.notFound, nil
	}
	s.mu.Unlock()

	return s.storage.Exists(ctx, name)
}

// Close closes the cache and the underlying storage.
func (s *CachedStorage) Close() error {
	s.mu.Lock()
	s.closed = true
	s.cache = nil
	s.mu.Unlock()

	return s.storage.Close()
}

// Invalidate removes a dictionary from the cache.
func (s *CachedStorage) Invalidate(name string) {
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
}

// InvalidateAll clears the entire cache.
func (s *CachedStorage) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string]*cacheEntry)
	s.mu.Unlock()
}

// Stats returns cache statistics.
func (s *CachedStorage) Stats() CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := CacheStats{
		Entries: len(s.cache),
		Hits:    s.hits,
		Misses:  s.misses,
	}
	for _, entry := range s.cache {
		if !s.isValid(entry) {
			continue
		}
		if entry.notFound {
			stats.NegativeEntries++
		} else {
			stats.ValidEntries++
		}
	}
	return stats
}

// isValid checks if a cache entry is still valid.
func (s *CachedStorage) isValid(entry *cacheEntry) bool {
	ttl := s.config.TTL
	if entry.notFound {
		ttl = s.config.NegativeCacheTTL
	}
	return time.Since(entry.cachedAt) < ttl
}

// addEntry adds an entry, evicting if at capacity. Caller must hold the lock.
func (s *CachedStorage) addEntry(name string, dict *StoredDictionary, notFound bool) {
	if _, exists := s.cache[name]; !exists && len(s.cache) >= s.config.MaxEntries {
		s.evictOldest()
	}

	now := time.Now()
	s.cache[name] = &cacheEntry{
		dict:       dict,
		notFound:   notFound,
		cachedAt:   now,
		accessedAt: now,
	}
}

// evictOldest removes the least recently accessed entry. Caller must hold the lock.
func (s *CachedStorage) evictOldest() {
	var (
		oldestName string
		oldest     *cacheEntry
	)
	for name, entry := range s.cache {
		if oldest == nil || entry.accessedAt.Before(oldest.accessedAt) {
			oldestName, oldest = name, entry
		}
	}
	if oldest != nil {
		delete(s.cache, oldestName)
	}
}

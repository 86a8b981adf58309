package dynfmt

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of DictionaryStorage.
// It is primarily intended for testing and development.
// All data is lost when the process terminates.
type MemoryStorage struct {
	mu           sync.RWMutex
	dictionaries map[string]*StoredDictionary
	closed       bool
}

// MemoryStorageDriver is the driver for creating MemoryStorage instances.
type MemoryStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameMemory, &MemoryStorageDriver{})
}

// Open creates a new MemoryStorage instance.
// The connection string is ignored for memory storage.
func (d *MemoryStorageDriver) Open(connectionString string) (DictionaryStorage, error) {
	return NewMemoryStorage(), nil
}

// NewMemoryStorage creates a new in-memory dictionary storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		dictionaries: make(map[string]*StoredDictionary),
	}
}

// Get retrieves a dictionary by name.
func (s *MemoryStorage) Get(ctx context.Context, name string) (*StoredDictionary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	dict, ok := s.dictionaries[name]
	if !ok {
		return nil, NewDictionaryNotFoundError(name)
	}
	return copyStoredDictionary(dict), nil
}

// Save inserts or replaces a dictionary.
func (s *MemoryStorage) Save(ctx context.Context, dict *StoredDictionary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	var existing *StoredDictionary
	if dict != nil {
		existing = s.dictionaries[dict.Name]
	}
	if err := prepareSave(dict, existing, time.Now()); err != nil {
		return err
	}

	s.dictionaries[dict.Name] = copyStoredDictionary(dict)
	return nil
}

// Delete removes a dictionary by name.
func (s *MemoryStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	if _, ok := s.dictionaries[name]; !ok {
		return NewDictionaryNotFoundError(name)
	}
	delete(s.dictionaries, name)
	return nil
}

// List returns dictionaries matching the query.
func (s *MemoryStorage) List(ctx context.Context, query *DictionaryQuery) ([]*StoredDictionary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	all := make([]*StoredDictionary, 0, len(s.dictionaries))
	for _, dict := range s.dictionaries {
		all = append(all, copyStoredDictionary(dict))
	}
	return applyDictionaryQuery(all, query), nil
}

// Exists checks if a dictionary exists.
func (s *MemoryStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}

	_, ok := s.dictionaries[name]
	return ok, nil
}

// Close marks the storage as closed and drops its contents.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.dictionaries = nil
	return nil
}

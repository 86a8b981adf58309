package dynfmt

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StoredDictionary is a named dictionary persisted in a storage backend.
type StoredDictionary struct {
	// ID is assigned on first save and kept across replacements.
	ID string `json:"id" yaml:"id"`

	// Name is the lookup key. See ValidateDictionaryName for the allowed characters.
	Name string `json:"name" yaml:"name"`

	// Entries maps placeholder keys to replacement text.
	Entries map[string]string `json:"entries" yaml:"entries"`

	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// DictionaryQuery defines filters for listing dictionaries.
type DictionaryQuery struct {
	// NamePrefix filters to names starting with this prefix.
	NamePrefix string

	// Tags filters to dictionaries having ALL specified tags.
	Tags []string

	// Limit is the maximum number of results (0 = no limit).
	Limit int

	// Offset is the number of results to skip (for pagination).
	Offset int
}

// DictionaryStorage is the interface for pluggable dictionary backends.
// Implementations must be safe for concurrent use.
type DictionaryStorage interface {
	// Get retrieves a dictionary by name.
	// Returns a not-found StorageError if the dictionary doesn't exist.
	Get(ctx context.Context, name string) (*StoredDictionary, error)

	// Save inserts or replaces a dictionary by name. ID and CreatedAt of an
	// existing dictionary are preserved; UpdatedAt is always refreshed. The
	// generated fields are written back into dict.
	Save(ctx context.Context, dict *StoredDictionary) error

	// Delete removes a dictionary by name.
	// Returns a not-found StorageError if the dictionary doesn't exist.
	Delete(ctx context.Context, name string) error

	// List returns dictionaries matching the query, ordered by name.
	// A nil query matches everything.
	List(ctx context.Context, query *DictionaryQuery) ([]*StoredDictionary, error)

	// Exists checks if a dictionary with the given name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// Close releases any resources held by the storage.
	Close() error
}

// StorageDriver is a factory for creating storage instances.
// Drivers register themselves during init().
type StorageDriver interface {
	// Open creates a new storage instance. The connection string format is
	// driver-specific.
	Open(connectionString string) (DictionaryStorage, error)
}

// Storage driver registry
var (
	storageDriversMu sync.RWMutex
	storageDrivers   = make(map[string]StorageDriver)
)

// RegisterStorageDriver registers a storage driver by name.
// Panics if the driver is nil or the name is already taken.
func RegisterStorageDriver(name string, driver StorageDriver) {
	storageDriversMu.Lock()
	defer storageDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStorageDriver)
	}
	if _, exists := storageDrivers[name]; exists {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	storageDrivers[name] = driver
}

// OpenStorage opens a storage connection using the named driver.
//
//	storage, err := dynfmt.OpenStorage("memory", "")
//	storage, err := dynfmt.OpenStorage("filesystem", "/path/to/dictionaries")
//	storage, err := dynfmt.OpenStorage("sqlite", "dictionaries.db")
func OpenStorage(driverName, connectionString string) (DictionaryStorage, error) {
	storageDriversMu.RLock()
	driver, ok := storageDrivers[driverName]
	storageDriversMu.RUnlock()

	if !ok {
		return nil, NewStorageDriverNotFoundError(driverName)
	}

	return driver.Open(connectionString)
}

// ListStorageDrivers returns the names of all registered storage drivers, sorted.
func ListStorageDrivers() []string {
	storageDriversMu.RLock()
	defer storageDriversMu.RUnlock()

	names := make([]string, 0, len(storageDrivers))
	for name := range storageDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StorageError represents a storage-related error.
type StorageError struct {
	Message string
	Name    string
	Cause   error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg += ": " + e.Name
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageDriverNotFoundError creates an error for a missing storage driver.
func NewStorageDriverNotFoundError(name string) error {
	return &StorageError{Message: ErrMsgStorageDriverNotFound, Name: name}
}

// NewDictionaryNotFoundError creates an error for a dictionary missing from storage.
func NewDictionaryNotFoundError(name string) error {
	return &StorageError{Message: ErrMsgDictionaryNotFound, Name: name}
}

// NewStorageClosedError creates an error for operations on closed storage.
func NewStorageClosedError() error {
	return &StorageError{Message: ErrMsgStorageClosed}
}

// IsNotFound reports whether err is a dictionary-not-found storage error.
func IsNotFound(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Message == ErrMsgDictionaryNotFound
}

// IsStorageClosed reports whether err is a closed-storage error.
func IsStorageClosed(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Message == ErrMsgStorageClosed
}

// ValidateDictionaryName checks that name is non-empty, at most
// DictionaryNameMaxLength bytes, uses only letters, digits, '_', '.' and '-',
// and does not start with '.'.
func ValidateDictionaryName(name string) error {
	if name == "" || len(name) > DictionaryNameMaxLength || strings.HasPrefix(name, ".") {
		return &StorageError{Message: ErrMsgInvalidDictionaryName, Name: name}
	}
	for _, r := range name {
		if !strings.ContainsRune(DictionaryNameChars, r) {
			return &StorageError{Message: ErrMsgInvalidDictionaryName, Name: name}
		}
	}
	return nil
}

// prepareSave validates dict and fills the generated fields. existing is the
// currently stored dictionary with the same name, or nil.
func prepareSave(dict *StoredDictionary, existing *StoredDictionary, now time.Time) error {
	if dict == nil {
		return &StorageError{Message: ErrMsgNilDictionary}
	}
	if err := ValidateDictionaryName(dict.Name); err != nil {
		return err
	}

	if existing != nil {
		dict.ID = existing.ID
		dict.CreatedAt = existing.CreatedAt
	} else {
		dict.ID = uuid.NewString()
		dict.CreatedAt = now
	}
	dict.UpdatedAt = now
	if dict.Entries == nil {
		dict.Entries = make(map[string]string)
	}
	return nil
}

// copyStoredDictionary creates a deep copy of a stored dictionary.
func copyStoredDictionary(dict *StoredDictionary) *StoredDictionary {
	if dict == nil {
		return nil
	}

	cp := *dict
	cp.Entries = make(map[string]string, len(dict.Entries))
	for k, v := range dict.Entries {
		cp.Entries[k] = v
	}
	if dict.Tags != nil {
		cp.Tags = append([]string(nil), dict.Tags...)
	}
	return &cp
}

// applyDictionaryQuery filters, sorts by name and paginates dicts.
func applyDictionaryQuery(dicts []*StoredDictionary, query *DictionaryQuery) []*StoredDictionary {
	if query == nil {
		query = &DictionaryQuery{}
	}

	results := make([]*StoredDictionary, 0, len(dicts))
	for _, d := range dicts {
		if query.NamePrefix != "" && !strings.HasPrefix(d.Name, query.NamePrefix) {
			continue
		}
		if !hasAllTags(d.Tags, query.Tags) {
			continue
		}
		results = append(results, d)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})

	if query.Offset > 0 {
		if query.Offset >= len(results) {
			return []*StoredDictionary{}
		}
		results = results[query.Offset:]
	}
	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}
	return results
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

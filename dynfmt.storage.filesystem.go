package dynfmt

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// FilesystemStorage stores each dictionary as one YAML document.
//
// Directory structure:
//
//	<root>/
//	  <name>.yaml
//	  ...
//
// Writes go to a temporary file that is renamed into place, so readers never
// observe a partially written dictionary.
type FilesystemStorage struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// FilesystemStorageDriver is the driver for creating FilesystemStorage instances.
type FilesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameFilesystem, &FilesystemStorageDriver{})
}

// Open creates a new FilesystemStorage instance.
// The connection string is the root directory path.
func (d *FilesystemStorageDriver) Open(connectionString string) (DictionaryStorage, error) {
	return NewFilesystemStorage(connectionString)
}

// NewFilesystemStorage creates the root directory if needed and returns a storage rooted there.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == "" {
		return nil, &StorageError{Message: ErrMsgFilesystemEmptyRoot}
	}
	if err := os.MkdirAll(root, FilesystemDirPerms); err != nil {
		return nil, &StorageError{Message: ErrMsgFilesystemIOFailed, Name: root, Cause: err}
	}
	return &FilesystemStorage{root: root}, nil
}

// Root returns the root directory.
func (s *FilesystemStorage) Root() string {
	return s.root
}

func (s *FilesystemStorage) path(name string) string {
	return filepath.Join(s.root, name+FilesystemDictionaryExt)
}

// Get retrieves a dictionary by name.
func (s *FilesystemStorage) Get(ctx context.Context, name string) (*StoredDictionary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	if ValidateDictionaryName(name) != nil {
		return nil, NewDictionaryNotFoundError(name)
	}
	return s.read(name)
}

// read loads one dictionary file. Caller must hold a lock.
func (s *FilesystemStorage) read(name string) (*StoredDictionary, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewDictionaryNotFoundError(name)
		}
		return nil, &StorageError{Message: ErrMsgFilesystemIOFailed, Name: name, Cause: err}
	}

	var dict StoredDictionary
	if err := yaml.Unmarshal(data, &dict); err != nil {
		return nil, &StorageError{Message: ErrMsgFilesystemIOFailed, Name: name, Cause: err}
	}
	dict.Name = name
	if dict.Entries == nil {
		dict.Entries = make(map[string]string)
	}
	return &dict, nil
}

// Save writes a dictionary, replacing any existing file of the same name.
func (s *FilesystemStorage) Save(ctx context.Context, dict *StoredDictionary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	var existing *StoredDictionary
	if dict != nil && ValidateDictionaryName(dict.Name) == nil {
		prev, err := s.read(dict.Name)
		if err != nil && !IsNotFound(err) {
			return err
		}
		existing = prev
	}
	if err := prepareSave(dict, existing, time.Now()); err != nil {
		return err
	}

	data, err := yaml.Marshal(dict)
	if err != nil {
		return &StorageError{Message: ErrMsgEncodeDictionary, Name: dict.Name, Cause: err}
	}
	return s.writeAtomic(dict.Name, data)
}

func (s *FilesystemStorage) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.root, FilesystemTempPattern)
	if err != nil {
		return &StorageError{Message: ErrMsgFilesystemIOFailed, Name: name, Cause: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StorageError{Message: ErrMsgFilesystemIOFailed, Name: name, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StorageError{Message: ErrMsgFilesystemIOFailed, Name: name, Cause: err}
	}
	if err := os.Chmod(tmpName, FilesystemFilePerms); err != nil {
		os.Remove(tmpName)
		return &StorageError{Message: ErrMsgFilesystemIOFailed, Name: name, Cause: err}
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		os.Remove(tmpName)
		return &StorageError{Message: ErrMsgFilesystemIOFailed, Name: name, Cause: err}
	}
	return nil
}

// Delete removes a dictionary file.
func (s *FilesystemStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}
	if ValidateDictionaryName(name) != nil {
		return NewDictionaryNotFoundError(name)
	}

	if err := os.Remove(s.path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewDictionaryNotFoundError(name)
		}
		return &StorageError{Message: ErrMsgFilesystemIOFailed, Name: name, Cause: err}
	}
	return nil
}

// List reads every dictionary file under the root and applies the query.
func (s *FilesystemStorage) List(ctx context.Context, query *DictionaryQuery) ([]*StoredDictionary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgFilesystemIOFailed, Name: s.root, Cause: err}
	}

	var all []*StoredDictionary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FilesystemDictionaryExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), FilesystemDictionaryExt)
		if ValidateDictionaryName(name) != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dict, err := s.read(name)
		if err != nil {
			return nil, err
		}
		all = append(all, dict)
	}
	return applyDictionaryQuery(all, query), nil
}

// Exists checks if a dictionary file exists.
func (s *FilesystemStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}
	if ValidateDictionaryName(name) != nil {
		return false, nil
	}

	_, err := os.Stat(s.path(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &StorageError{Message: ErrMsgFilesystemIOFailed, Name: name, Cause: err}
}

// Close marks the storage as closed. Files are left in place.
func (s *FilesystemStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

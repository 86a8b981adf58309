package dynfmt

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStorage persists dictionaries to SQLite.
// It is suitable for single-process production use.
type SQLiteStorage struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// SQLiteStorageDriver is the driver for creating SQLiteStorage instances.
type SQLiteStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameSQLite, &SQLiteStorageDriver{})
}

// Open creates a new SQLiteStorage instance.
// The connection string is a file path or ":memory:".
func (d *SQLiteStorageDriver) Open(connectionString string) (DictionaryStorage, error) {
	return NewSQLiteStorage(connectionString)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// NewSQLiteStorage opens (and if needed creates) a SQLite dictionary store.
// An empty path means ":memory:".
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if path == "" {
		path = SQLiteMemoryDSN
	}

	db, err := sql.Open(SQLiteDriverName, path)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgSQLiteOpenFailed, Name: path, Cause: err}
	}

	// every connection to ":memory:" is a separate database
	if path == SQLiteMemoryDSN {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(SQLitePragmaWAL); err != nil {
		db.Close()
		return nil, &StorageError{Message: ErrMsgSQLiteOpenFailed, Name: path, Cause: err}
	}

	if _, err := db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name        TEXT PRIMARY KEY,
			id          TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			entries     TEXT NOT NULL,
			tags        TEXT NOT NULL,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)`, SQLiteTableName)); err != nil {
		db.Close()
		return nil, &StorageError{Message: ErrMsgSQLiteOpenFailed, Name: path, Cause: err}
	}

	return &SQLiteStorage{db: db}, nil
}

const sqliteSelectColumns = "name, id, description, entries, tags, created_at, updated_at"

// Get retrieves a dictionary by name.
func (s *SQLiteStorage) Get(ctx context.Context, name string) (*StoredDictionary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE name = ?", sqliteSelectColumns, SQLiteTableName), name)
	dict, err := scanSQLiteDictionary(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewDictionaryNotFoundError(name)
		}
		return nil, &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: name, Cause: err}
	}
	return dict, nil
}

// Save inserts or replaces a dictionary.
func (s *SQLiteStorage) Save(ctx context.Context, dict *StoredDictionary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}
	if dict == nil {
		return &StorageError{Message: ErrMsgNilDictionary}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: dict.Name, Cause: err}
	}
	defer tx.Rollback()

	var existing *StoredDictionary
	row := tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE name = ?", sqliteSelectColumns, SQLiteTableName), dict.Name)
	prev, err := scanSQLiteDictionary(row)
	switch {
	case err == nil:
		existing = prev
	case !errors.Is(err, sql.ErrNoRows):
		return &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: dict.Name, Cause: err}
	}

	if err := prepareSave(dict, existing, time.Now().UTC()); err != nil {
		return err
	}

	entries, tags, err := encodeDictionaryColumns(dict)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (name, id, description, entries, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			entries     = excluded.entries,
			tags        = excluded.tags,
			updated_at  = excluded.updated_at`, SQLiteTableName),
		dict.Name, dict.ID, dict.Description, string(entries), string(tags),
		dict.CreatedAt.Format(SQLiteTimeLayout), dict.UpdatedAt.Format(SQLiteTimeLayout))
	if err != nil {
		return &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: dict.Name, Cause: err}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: dict.Name, Cause: err}
	}
	return nil
}

// Delete removes a dictionary by name.
func (s *SQLiteStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE name = ?", SQLiteTableName), name)
	if err != nil {
		return &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: name, Cause: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: name, Cause: err}
	}
	if n == 0 {
		return NewDictionaryNotFoundError(name)
	}
	return nil
}

// List returns dictionaries matching the query.
func (s *SQLiteStorage) List(ctx context.Context, query *DictionaryQuery) ([]*StoredDictionary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s ORDER BY name", sqliteSelectColumns, SQLiteTableName))
	if err != nil {
		return nil, &StorageError{Message: ErrMsgSQLiteQueryFailed, Cause: err}
	}
	defer rows.Close()

	var all []*StoredDictionary
	for rows.Next() {
		dict, err := scanSQLiteDictionary(rows)
		if err != nil {
			return nil, &StorageError{Message: ErrMsgSQLiteQueryFailed, Cause: err}
		}
		all = append(all, dict)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Message: ErrMsgSQLiteQueryFailed, Cause: err}
	}
	return applyDictionaryQuery(all, query), nil
}

// Exists checks if a dictionary exists.
func (s *SQLiteStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE name = ?", SQLiteTableName), name).Scan(&count)
	if err != nil {
		return false, &StorageError{Message: ErrMsgSQLiteQueryFailed, Name: name, Cause: err}
	}
	return count > 0, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func scanSQLiteDictionary(row rowScanner) (*StoredDictionary, error) {
	var (
		dict                 StoredDictionary
		entries, tags        string
		createdAt, updatedAt string
	)
	if err := row.Scan(&dict.Name, &dict.ID, &dict.Description, &entries, &tags, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := decodeDictionaryColumns(&dict, []byte(entries), []byte(tags)); err != nil {
		return nil, err
	}

	var err error
	if dict.CreatedAt, err = time.Parse(SQLiteTimeLayout, createdAt); err != nil {
		return nil, err
	}
	if dict.UpdatedAt, err = time.Parse(SQLiteTimeLayout, updatedAt); err != nil {
		return nil, err
	}
	return &dict, nil
}

// encodeDictionaryColumns serializes the map and slice columns shared by the SQL backends.
func encodeDictionaryColumns(dict *StoredDictionary) (entries []byte, tags []byte, err error) {
	entries, err = json.Marshal(dict.Entries)
	if err != nil {
		return nil, nil, &StorageError{Message: ErrMsgEncodeDictionary, Name: dict.Name, Cause: err}
	}
	t := dict.Tags
	if t == nil {
		t = []string{}
	}
	tags, err = json.Marshal(t)
	if err != nil {
		return nil, nil, &StorageError{Message: ErrMsgEncodeDictionary, Name: dict.Name, Cause: err}
	}
	return entries, tags, nil
}

func decodeDictionaryColumns(dict *StoredDictionary, entries, tags []byte) error {
	if err := json.Unmarshal(entries, &dict.Entries); err != nil {
		return err
	}
	if dict.Entries == nil {
		dict.Entries = make(map[string]string)
	}
	if err := json.Unmarshal(tags, &dict.Tags); err != nil {
		return err
	}
	if len(dict.Tags) == 0 {
		dict.Tags = nil
	}
	return nil
}

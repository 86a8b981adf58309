package dynfmt

import "time"

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Format errors
	ErrMsgUnmatchedBrace = "unmatched brace in pattern"
	ErrMsgKeyNotFound    = "placeholder key not found"

	// Formatter errors
	ErrMsgNoStorage        = "no dictionary storage configured"
	ErrMsgNoDictionaryName = "at least one dictionary name is required"
	ErrMsgLoadDictionary   = "failed to load dictionary"

	// Dictionary file errors
	ErrMsgUnsupportedFormat  = "unsupported dictionary format"
	ErrMsgDecodeDictionary   = "failed to decode dictionary"
	ErrMsgReadDictionaryFile = "failed to read dictionary file"
	ErrMsgNonScalarValue     = "dictionary value must be a scalar"
	ErrMsgNullValue          = "dictionary value must not be null"
)

// Error code constants for categorization
const (
	ErrCodeToken      = "DYNFMT_TOKEN"
	ErrCodeFormatter  = "DYNFMT_FORMATTER"
	ErrCodeDictionary = "DYNFMT_DICTIONARY"
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyPattern     = "pattern"
	MetaKeyPosition    = "position"
	MetaKeyDescription = "description"
	MetaKeyKey         = "key"
	MetaKeyDictionary  = "dictionary"
	MetaKeyFormat      = "format"
	MetaKeyPath        = "path"
	MetaKeyType        = "type"
)

// Diagnostic rendering of format errors
const (
	FmtTokenError      = "Parse arguments failed: Token Error (%s) when parsing pattern \"%s\" at pos %d."
	FmtKeyError        = "Parse arguments failed: Key Not Found (key: \"%s\") when parsing pattern \"%s\" at pos %d."
	KeyErrorHelpHeader = "Help: These are valid key-value pairs:"
	FmtKeyErrorEntry   = "%s: %s"
)

// Error kind names
const (
	ErrorKindNameToken = "TokenError"
	ErrorKindNameKey   = "KeyError"
)

// Log message constants
const (
	LogMsgFormatterCreated  = "formatter created"
	LogMsgFormatStart       = "formatting pattern"
	LogMsgFormatComplete    = "pattern formatted"
	LogMsgFormatFailed      = "pattern formatting failed"
	LogMsgDictionaryLoaded  = "dictionary loaded"
	LogMsgDictionaryMissing = "dictionary lookup failed"
)

// Log field names
const (
	LogFieldPatternLength = "pattern_length"
	LogFieldOutputLength  = "output_length"
	LogFieldEntries       = "entry_count"
	LogFieldErrorKind     = "error_kind"
	LogFieldPosition      = "position"
	LogFieldKey           = "key"
	LogFieldDictionary    = "dictionary"
	LogFieldDuration      = "duration"
	LogFieldStorage       = "storage"
)

// Tracing constants
const (
	TracerName          = "dynfmt"
	SpanNameFormat      = "dynfmt.format"
	SpanNameLoad        = "dynfmt.load_dictionaries"
	AttrPatternLength   = "dynfmt.pattern.length"
	AttrDictionarySize  = "dynfmt.dictionary.size"
	AttrDictionaryNames = "dynfmt.dictionary.names"
	AttrErrorKind       = "dynfmt.error.kind"
	AttrErrorPosition   = "dynfmt.error.position"
)

// Storage driver names
const (
	StorageDriverNameMemory     = "memory"
	StorageDriverNameFilesystem = "filesystem"
	StorageDriverNameSQLite     = "sqlite"
	StorageDriverNamePostgres   = "postgres"
)

// Storage error message constants
const (
	ErrMsgNilStorageDriver         = "storage driver is nil"
	ErrMsgDriverAlreadyRegistered  = "storage driver already registered"
	ErrMsgStorageDriverNotFound    = "storage driver not found"
	ErrMsgStorageClosed            = "storage is closed"
	ErrMsgDictionaryNotFound       = "dictionary not found"
	ErrMsgInvalidDictionaryName    = "invalid dictionary name"
	ErrMsgNilDictionary            = "dictionary is nil"
	ErrMsgFilesystemEmptyRoot      = "filesystem storage root is empty"
	ErrMsgFilesystemIOFailed       = "filesystem storage I/O failed"
	ErrMsgSQLiteOpenFailed         = "failed to open sqlite database"
	ErrMsgSQLiteQueryFailed        = "sqlite query failed"
	ErrMsgPostgresEmptyConnString  = "postgres connection string is empty"
	ErrMsgPostgresConnectionFailed = "failed to connect to postgres"
	ErrMsgPostgresQueryFailed      = "postgres query failed"
	ErrMsgPostgresMigrationFailed  = "postgres migration failed"
	ErrMsgEncodeDictionary         = "failed to encode dictionary"
)

// Dictionary name rules
const (
	DictionaryNameMaxLength = 128
	DictionaryNameChars     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_.-"
)

// Filesystem storage constants
const (
	FilesystemDictionaryExt = ".yaml"
	FilesystemDirPerms      = 0o755
	FilesystemFilePerms     = 0o644
	FilesystemTempPattern   = ".dynfmt-*.tmp"
)

// SQLite storage constants
const (
	SQLiteDriverName = "sqlite"
	SQLiteMemoryDSN  = ":memory:"
	SQLiteTableName  = "dynfmt_dictionaries"
	SQLitePragmaWAL  = "PRAGMA journal_mode=WAL"
	SQLiteTimeLayout = time.RFC3339Nano
)

// PostgreSQL storage defaults
const (
	PostgresDriverName             = "postgres"
	PostgresTablePrefix            = "dynfmt_"
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
)

// Cache defaults
const (
	CacheDefaultTTL              = 5 * time.Minute
	CacheDefaultMaxEntries       = 1000
	CacheDefaultNegativeCacheTTL = 30 * time.Second
)

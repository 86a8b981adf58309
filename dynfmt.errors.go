package dynfmt

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"

	"github.com/itsatony/go-dynfmt/internal"
)

// ErrorKind tags a FormatError as one of the two failure shapes.
type ErrorKind int

const (
	// ErrorKindToken is a malformed brace structure: a lone '{' or '}',
	// or a placeholder that is never closed.
	ErrorKindToken ErrorKind = iota
	// ErrorKindKey is a well-formed placeholder whose key is absent from the dictionary.
	ErrorKindKey
)

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	if k == ErrorKindKey {
		return ErrorKindNameKey
	}
	return ErrorKindNameToken
}

// Entry is one key-value pair of a dictionary snapshot.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FormatError describes why a pattern could not be formatted.
//
// Position is a 0-indexed rune offset into Pattern. For token errors it points
// at the offending unmatched brace; for key errors it points at the opening
// '{' of the placeholder.
type FormatError struct {
	Kind     ErrorKind
	Pattern  string
	Position int

	// Description is set for token errors, e.g. "unmatched token '{'".
	Description string

	// Key and Entries are set for key errors. Entries is a snapshot of the
	// dictionary sorted by key.
	Key     string
	Entries []Entry
}

// Error renders the diagnostic text. Key errors list every valid
// key-value pair after a help header, one per line.
func (e *FormatError) Error() string {
	if e.Kind == ErrorKindToken {
		return fmt.Sprintf(FmtTokenError, e.Description, e.Pattern, e.Position)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, FmtKeyError, e.Key, e.Pattern, e.Position)
	sb.WriteByte('\n')
	sb.WriteString(KeyErrorHelpHeader)
	for _, entry := range e.Entries {
		sb.WriteByte('\n')
		fmt.Fprintf(&sb, FmtKeyErrorEntry, entry.Key, entry.Value)
	}
	return sb.String()
}

// Unwrap exposes the categorized form of the error so callers using
// errors.As with *cuserr.CustomError see code and metadata.
func (e *FormatError) Unwrap() error {
	if e.Kind == ErrorKindKey {
		return cuserr.NewNotFoundError(MetaKeyKey, ErrMsgKeyNotFound).
			WithMetadata(MetaKeyKey, e.Key).
			WithMetadata(MetaKeyPattern, e.Pattern).
			WithMetadata(MetaKeyPosition, strconv.Itoa(e.Position))
	}
	return cuserr.NewValidationError(ErrCodeToken, ErrMsgUnmatchedBrace).
		WithMetadata(MetaKeyDescription, e.Description).
		WithMetadata(MetaKeyPattern, e.Pattern).
		WithMetadata(MetaKeyPosition, strconv.Itoa(e.Position))
}

// IsTokenError reports whether err is, or wraps, a token FormatError.
func IsTokenError(err error) bool {
	fe, ok := AsFormatError(err)
	return ok && fe.Kind == ErrorKindToken
}

// IsKeyError reports whether err is, or wraps, a key FormatError.
func IsKeyError(err error) bool {
	fe, ok := AsFormatError(err)
	return ok && fe.Kind == ErrorKindKey
}

// AsFormatError extracts a *FormatError from err's chain.
func AsFormatError(err error) (*FormatError, bool) {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// newFormatError converts a scanner fault into the public error value.
func newFormatError(pattern string, scanErr *internal.ScanError, dictionary map[string]string) *FormatError {
	if scanErr.Kind == internal.ScanErrorKey {
		return &FormatError{
			Kind:     ErrorKindKey,
			Pattern:  pattern,
			Position: scanErr.Position,
			Key:      scanErr.Key,
			Entries:  sortedEntries(dictionary),
		}
	}
	return &FormatError{
		Kind:        ErrorKindToken,
		Pattern:     pattern,
		Position:    scanErr.Position,
		Description: scanErr.Description,
	}
}

func sortedEntries(dictionary map[string]string) []Entry {
	entries := make([]Entry, 0, len(dictionary))
	for k, v := range dictionary {
		entries = append(entries, Entry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// NewNoStorageError creates an error for named lookups without a storage backend
func NewNoStorageError() error {
	return cuserr.NewValidationError(ErrCodeFormatter, ErrMsgNoStorage)
}

// NewNoDictionaryNameError creates an error for a named lookup without names
func NewNoDictionaryNameError() error {
	return cuserr.NewValidationError(ErrCodeFormatter, ErrMsgNoDictionaryName)
}

// NewLoadDictionaryError wraps a storage failure with the dictionary name
func NewLoadDictionaryError(name string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeFormatter, ErrMsgLoadDictionary).
		WithMetadata(MetaKeyDictionary, name)
}

// NewUnsupportedFormatError creates an error for an unknown dictionary file format
func NewUnsupportedFormatError(format string) error {
	return cuserr.NewValidationError(ErrCodeDictionary, ErrMsgUnsupportedFormat).
		WithMetadata(MetaKeyFormat, format)
}

// NewDecodeDictionaryError wraps a decoder failure
func NewDecodeDictionaryError(format DictionaryFormat, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeDictionary, ErrMsgDecodeDictionary).
		WithMetadata(MetaKeyFormat, string(format))
}

// NewReadDictionaryFileError wraps a file read failure
func NewReadDictionaryFileError(path string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeDictionary, ErrMsgReadDictionaryFile).
		WithMetadata(MetaKeyPath, path)
}

// NewNonScalarValueError creates an error for a nested or list value
func NewNonScalarValueError(key string, value any) error {
	return cuserr.NewValidationError(ErrCodeDictionary, ErrMsgNonScalarValue).
		WithMetadata(MetaKeyKey, key).
		WithMetadata(MetaKeyType, fmt.Sprintf("%T", value))
}

// NewNullValueError creates an error for a null value
func NewNullValueError(key string) error {
	return cuserr.NewValidationError(ErrCodeDictionary, ErrMsgNullValue).
		WithMetadata(MetaKeyKey, key)
}

// Package dynfmt provides limited, safe, Python-style named formatting at runtime.
//
// A pattern is plain text with {key} placeholders. Each placeholder is replaced
// by the dictionary value stored under key. A literal brace is written doubled:
//
//	dynfmt.Format("I'm {name}. I'm {age} years old now.", map[string]string{
//	    "name": "ABC",
//	    "age":  "20",
//	})
//	// "I'm ABC. I'm 20 years old now."
//
//	dynfmt.Format("{{{age} }}{age}", map[string]string{"age": "15"})
//	// "{15 }15"
//
// There are no format specifiers, no nesting and no recursion: values are
// inserted verbatim and never rescanned.
//
// # Errors
//
// Formatting either succeeds completely or returns a *FormatError and an empty
// string. The error is tagged with one of two kinds:
//
//   - ErrorKindToken: an unmatched '{' or '}' (for example "{abc" or "a}b").
//   - ErrorKindKey: a placeholder whose key is not in the dictionary.
//
// Positions are 0-indexed rune offsets into the pattern. Only the first fault
// in scan order is reported.
//
//	_, err := dynfmt.Format("{missing}", map[string]string{"a": "1"})
//	if fe, ok := dynfmt.AsFormatError(err); ok && fe.Kind == dynfmt.ErrorKindKey {
//	    fmt.Println(fe.Key) // "missing"
//	}
//
// # Formatter
//
// Format, Keys and Validate are pure functions and never log. The Formatter
// type adds structured logging, tracing, and dictionaries loaded by name from
// a DictionaryStorage:
//
//	storage, _ := dynfmt.OpenStorage("filesystem", "/etc/myapp/dictionaries")
//	f := dynfmt.MustNew(dynfmt.WithStorage(storage), dynfmt.WithLogger(logger))
//	out, err := f.FormatNamed(ctx, "Hello {user}", "defaults", "overrides")
package dynfmt

import (
	"github.com/itsatony/go-dynfmt/internal"
)

// Format substitutes the {key} placeholders of pattern with values from
// dictionary and collapses the {{ and }} escapes.
//
// A pattern without any brace is returned unchanged. On failure the returned
// error is a *FormatError and the string is empty.
func Format(pattern string, dictionary map[string]string) (string, error) {
	out, scanErr := internal.Scan(pattern, func(key string) (string, bool) {
		v, ok := dictionary[key]
		return v, ok
	})
	if scanErr != nil {
		return "", newFormatError(pattern, scanErr, dictionary)
	}
	return out, nil
}

// Keys returns the distinct placeholder keys of pattern in order of first
// appearance. It fails with the token error Format would report for any
// dictionary.
func Keys(pattern string) ([]string, error) {
	seen := make(map[string]struct{})
	keys := []string{}

	_, scanErr := internal.Scan(pattern, func(key string) (string, bool) {
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
		return "", true
	})
	if scanErr != nil {
		return nil, newFormatError(pattern, scanErr, nil)
	}
	return keys, nil
}

// Validate checks the brace structure of pattern without resolving any key.
// It returns nil or a token *FormatError.
func Validate(pattern string) error {
	_, err := Keys(pattern)
	return err
}

// MissingKeys returns every distinct placeholder key of pattern that is absent
// from dictionary, in order of first appearance. Unlike Format it does not
// stop at the first missing key. A malformed pattern yields its token error.
func MissingKeys(pattern string, dictionary map[string]string) ([]string, error) {
	keys, err := Keys(pattern)
	if err != nil {
		return nil, err
	}

	missing := []string{}
	for _, key := range keys {
		if _, ok := dictionary[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing, nil
}

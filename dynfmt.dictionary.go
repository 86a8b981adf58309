package dynfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DictionaryFormat names a serialization accepted by ParseDictionary.
type DictionaryFormat string

// Supported dictionary formats
const (
	DictionaryFormatJSON DictionaryFormat = "json"
	DictionaryFormatYAML DictionaryFormat = "yaml"
	DictionaryFormatTOML DictionaryFormat = "toml"
)

// DictionaryFormatFromPath picks the format from a file extension
// (.json, .yaml, .yml, .toml; case-insensitive).
func DictionaryFormatFromPath(path string) (DictionaryFormat, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return DictionaryFormatJSON, nil
	case ".yaml", ".yml":
		return DictionaryFormatYAML, nil
	case ".toml":
		return DictionaryFormatTOML, nil
	default:
		return "", NewUnsupportedFormatError(ext)
	}
}

// LoadDictionaryFile reads a flat key-value document from disk.
func LoadDictionaryFile(path string) (map[string]string, error) {
	format, err := DictionaryFormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewReadDictionaryFileError(path, err)
	}
	return ParseDictionary(data, format)
}

// ParseDictionary decodes a flat key-value document. The top level must be
// a mapping. Strings are kept as is; numbers, booleans and timestamps are
// converted to their text form. Nulls, lists and nested mappings are rejected.
func ParseDictionary(data []byte, format DictionaryFormat) (map[string]string, error) {
	var raw map[string]any

	switch format {
	case DictionaryFormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, NewDecodeDictionaryError(format, err)
		}
	case DictionaryFormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, NewDecodeDictionaryError(format, err)
		}
	case DictionaryFormatTOML:
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, NewDecodeDictionaryError(format, err)
		}
	default:
		return nil, NewUnsupportedFormatError(string(format))
	}

	dict := make(map[string]string, len(raw))
	for key, value := range raw {
		text, err := scalarText(key, value)
		if err != nil {
			return nil, err
		}
		dict[key] = text
	}
	return dict, nil
}

func scalarText(key string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", NewNullValueError(key)
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case json.Number:
		return v.String(), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", NewNonScalarValueError(key, value)
	}
}

package dynfmt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionaryFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected DictionaryFormat
	}{
		{"a.json", DictionaryFormatJSON},
		{"dir/b.yaml", DictionaryFormatYAML},
		{"c.YML", DictionaryFormatYAML},
		{"d.toml", DictionaryFormatTOML},
	}
	for _, tt := range tests {
		format, err := DictionaryFormatFromPath(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.expected, format, tt.path)
	}

	for _, path := range []string{"e.ini", "noext", "f.json.bak"} {
		_, err := DictionaryFormatFromPath(path)
		require.Error(t, err, path)
		assert.Contains(t, err.Error(), ErrMsgUnsupportedFormat)
	}
}

func TestParseDictionary_JSON(t *testing.T) {
	data := []byte(`{"name": "ABC", "age": 20, "price": 1.50, "big": 12345678901234567890, "ok": true, "empty": ""}`)

	dict, err := ParseDictionary(data, DictionaryFormatJSON)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"name":  "ABC",
		"age":   "20",
		"price": "1.50",
		"big":   "12345678901234567890",
		"ok":    "true",
		"empty": "",
	}, dict)
}

func TestParseDictionary_YAML(t *testing.T) {
	data := []byte("name: ABC\nage: 20\nratio: 0.25\nenabled: false\nquoted: \"{literal}\"\n")

	dict, err := ParseDictionary(data, DictionaryFormatYAML)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"name":    "ABC",
		"age":     "20",
		"ratio":   "0.25",
		"enabled": "false",
		"quoted":  "{literal}",
	}, dict)

	empty, err := ParseDictionary([]byte(""), DictionaryFormatYAML)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestParseDictionary_TOML(t *testing.T) {
	data := []byte("name = \"ABC\"\nage = 20\nratio = 2.5\nenabled = true\nwhen = 2024-01-02T03:04:05Z\n")

	dict, err := ParseDictionary(data, DictionaryFormatTOML)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"name":    "ABC",
		"age":     "20",
		"ratio":   "2.5",
		"enabled": "true",
		"when":    "2024-01-02T03:04:05Z",
	}, dict)
}

func TestParseDictionary_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format DictionaryFormat
		errMsg string
	}{
		{name: "json syntax", data: `{"a":`, format: DictionaryFormatJSON, errMsg: ErrMsgDecodeDictionary},
		{name: "json top-level array", data: `["a"]`, format: DictionaryFormatJSON, errMsg: ErrMsgDecodeDictionary},
		{name: "json null value", data: `{"a": null}`, format: DictionaryFormatJSON, errMsg: ErrMsgNullValue},
		{name: "json nested object", data: `{"a": {"b": "c"}}`, format: DictionaryFormatJSON, errMsg: ErrMsgNonScalarValue},
		{name: "yaml list value", data: "a:\n  - 1\n  - 2\n", format: DictionaryFormatYAML, errMsg: ErrMsgNonScalarValue},
		{name: "yaml null value", data: "a: ~\n", format: DictionaryFormatYAML, errMsg: ErrMsgNullValue},
		{name: "yaml top-level list", data: "- a\n- b\n", format: DictionaryFormatYAML, errMsg: ErrMsgDecodeDictionary},
		{name: "toml table", data: "[section]\nkey = \"v\"\n", format: DictionaryFormatTOML, errMsg: ErrMsgNonScalarValue},
		{name: "toml syntax", data: "key = \n", format: DictionaryFormatTOML, errMsg: ErrMsgDecodeDictionary},
		{name: "unknown format", data: "k=v", format: DictionaryFormat("ini"), errMsg: ErrMsgUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict, err := ParseDictionary([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.Nil(t, dict)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadDictionaryFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "values.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"who": "world"}`), 0o644))

	dict, err := LoadDictionaryFile(path)
	require.NoError(t, err)

	out, err := Format("hello {who}", dict)
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)

	_, err = LoadDictionaryFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgReadDictionaryFile)

	_, err = LoadDictionaryFile(filepath.Join(dir, "values.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnsupportedFormat)
}

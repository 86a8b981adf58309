package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestScan_Success(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		dict     map[string]string
		expected string
	}{
		{name: "empty pattern", pattern: "", expected: ""},
		{name: "plain text", pattern: "abcdefg", expected: "abcdefg"},
		{name: "key-like text without braces", pattern: "we-have", dict: map[string]string{"we": ""}, expected: "we-have"},
		{name: "escaped close", pattern: "}}", expected: "}"},
		{name: "escaped open", pattern: "{{", expected: "{"},
		{name: "escaped pair around text", pattern: "{{ab}}", dict: map[string]string{"ab": "1"}, expected: "{ab}"},
		{name: "escaped open then text", pattern: "{{234", expected: "{234"},
		{name: "double escapes", pattern: "{{{{a}}", expected: "{{a}"},
		{name: "single placeholder", pattern: "{ab}", dict: map[string]string{"ab": "1"}, expected: "1"},
		{name: "repeated placeholder", pattern: "1{a}32{a}4", dict: map[string]string{"a": "555", "b": ""}, expected: "1555325554"},
		{name: "two placeholders", pattern: "{key1}-{key2}", dict: map[string]string{"key1": "0", "key2": "a"}, expected: "0-a"},
		{name: "escape then placeholder", pattern: "{{{a}", dict: map[string]string{"a": "1"}, expected: "{1"},
		{name: "placeholder inside escapes", pattern: "{{|{k}}}", dict: map[string]string{"k": "x123"}, expected: "{|x123}"},
		{name: "mixed escapes", pattern: "{{{key1}}}-}}}}{key2}", dict: map[string]string{"key1": "0", "key2": "a"}, expected: "{0}-}}a"},
		{name: "escape with space", pattern: "{{{age} }}{age}", dict: map[string]string{"age": "15"}, expected: "{15 }15"},
		{name: "empty key", pattern: "x{}y", dict: map[string]string{"": "-"}, expected: "x-y"},
		{name: "multibyte text", pattern: "héllo {name} ✓", dict: map[string]string{"name": "wörld"}, expected: "héllo wörld ✓"},
		{name: "multibyte key", pattern: "{名前}", dict: map[string]string{"名前": "太郎"}, expected: "太郎"},
		{name: "value containing braces is not rescanned", pattern: "{a}", dict: map[string]string{"a": "{b}"}, expected: "{b}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, scanErr := Scan(tt.pattern, mapLookup(tt.dict))
			require.Nil(t, scanErr)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestScan_TokenErrors(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		position int
		desc     string
	}{
		{name: "unterminated open", pattern: "{abc", position: 0, desc: DescUnmatchedOpen},
		{name: "trailing lone close", pattern: "{{a}}}324", position: 5, desc: DescUnmatchedClose},
		{name: "second open before close", pattern: "{na{me}324", position: 0, desc: DescUnmatchedOpen},
		{name: "two lone closes", pattern: "name}3}24", position: 4, desc: DescUnmatchedClose},
		{name: "nested placeholder", pattern: "I'm {name{name}}.", position: 4, desc: DescUnmatchedOpen},
		{name: "lone close at end", pattern: "abc}", position: 3, desc: DescUnmatchedClose},
		{name: "lone open at end", pattern: "abc{", position: 3, desc: DescUnmatchedOpen},
		{name: "close before placeholder", pattern: "}{a}", position: 0, desc: DescUnmatchedClose},
		{name: "open wins at end of input", pattern: "}{", position: 1, desc: DescUnmatchedOpen},
		{name: "rune positions, not bytes", pattern: "日本語{x", position: 3, desc: DescUnmatchedOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, scanErr := Scan(tt.pattern, mapLookup(map[string]string{"name": "n", "a": "1", "x": "2"}))
			require.NotNil(t, scanErr)
			assert.Empty(t, out)
			assert.Equal(t, ScanErrorToken, scanErr.Kind)
			assert.Equal(t, tt.position, scanErr.Position)
			assert.Equal(t, tt.desc, scanErr.Description)
		})
	}
}

func TestScan_KeyErrors(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		dict     map[string]string
		key      string
		position int
	}{
		{name: "single missing key", pattern: "{abc}", dict: map[string]string{"abd": "1"}, key: "abc", position: 0},
		{name: "second placeholder missing", pattern: "234{ac}{ab}", dict: map[string]string{"ac": "1", "aa": "."}, key: "ab", position: 7},
		{name: "empty dictionary", pattern: "x{missing}", key: "missing", position: 1},
		{name: "multibyte prefix", pattern: "ü{k}", key: "k", position: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, scanErr := Scan(tt.pattern, mapLookup(tt.dict))
			require.NotNil(t, scanErr)
			assert.Empty(t, out)
			assert.Equal(t, ScanErrorKey, scanErr.Kind)
			assert.Equal(t, tt.key, scanErr.Key)
			assert.Equal(t, tt.position, scanErr.Position)
		})
	}
}

func TestScan_KeyErrorStopsScan(t *testing.T) {
	var seen []string
	lookup := func(key string) (string, bool) {
		seen = append(seen, key)
		return "", key != "b"
	}

	_, scanErr := Scan("{a}{b}{c}", lookup)

	require.NotNil(t, scanErr)
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestScan_FirstFaultOnly(t *testing.T) {
	// missing key appears before the unmatched brace
	_, scanErr := Scan("{nope} }", mapLookup(nil))
	require.NotNil(t, scanErr)
	assert.Equal(t, ScanErrorKey, scanErr.Kind)

	// unmatched brace appears before the missing key is closed
	_, scanErr = Scan("} {nope}", mapLookup(nil))
	require.NotNil(t, scanErr)
	assert.Equal(t, ScanErrorToken, scanErr.Kind)
	assert.Equal(t, 0, scanErr.Position)
}

func TestScan_InvalidUTF8PassesThrough(t *testing.T) {
	pattern := "a\xffb{k}"
	out, scanErr := Scan(pattern, mapLookup(map[string]string{"k": "v"}))
	require.Nil(t, scanErr)
	assert.Equal(t, "a\xffbv", out)
}

func TestScanError_Error(t *testing.T) {
	tokenErr := &ScanError{Kind: ScanErrorToken, Position: 3, Description: DescUnmatchedOpen}
	assert.Contains(t, tokenErr.Error(), ScanErrorNameToken)
	assert.Contains(t, tokenErr.Error(), DescUnmatchedOpen)

	keyErr := &ScanError{Kind: ScanErrorKey, Position: 1, Key: "k"}
	assert.Contains(t, keyErr.Error(), ScanErrorNameKey)
	assert.Contains(t, keyErr.Error(), `"k"`)
}

package internal

// Brace characters recognized by the scanner
const (
	CharOpenBrace  = '{'
	CharCloseBrace = '}'
)

// BraceChars is the set of runes that take the scanner off its fast path
const BraceChars = "{}"

// NoPosition marks a pending-brace slot as empty
const NoPosition = -1

// Token error descriptions
const (
	DescUnmatchedOpen  = "unmatched token '{'"
	DescUnmatchedClose = "unmatched token '}'"
)

// ScanErrorKind identifies which fault stopped a scan
type ScanErrorKind int

// Scan error kinds
const (
	ScanErrorToken ScanErrorKind = iota
	ScanErrorKey
)

// Scan error kind names for debugging
const (
	ScanErrorNameToken = "TOKEN"
	ScanErrorNameKey   = "KEY"
)

// String returns the string representation of the scan error kind
func (k ScanErrorKind) String() string {
	switch k {
	case ScanErrorKey:
		return ScanErrorNameKey
	default:
		return ScanErrorNameToken
	}
}

// Key accumulator initial capacity
const keyBufferSize = 16

package internal

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// LookupFunc resolves a placeholder key to its replacement text.
// The boolean result reports whether the key is known.
type LookupFunc func(key string) (string, bool)

// ScanError describes the first fault found while scanning a pattern.
// Position is a 0-indexed rune offset into the pattern.
type ScanError struct {
	Kind        ScanErrorKind
	Position    int
	Description string // token errors only
	Key         string // key errors only
}

// Error implements the error interface
func (e *ScanError) Error() string {
	if e.Kind == ScanErrorKey {
		return fmt.Sprintf("%s: key %q at %d", e.Kind, e.Key, e.Position)
	}
	return fmt.Sprintf("%s: %s at %d", e.Kind, e.Description, e.Position)
}

func newTokenError(pos int, desc string) *ScanError {
	return &ScanError{Kind: ScanErrorToken, Position: pos, Description: desc}
}

// Scan substitutes every {key} placeholder in pattern using lookup and
// collapses the {{ and }} escapes. It walks the pattern once, rune by rune,
// and stops at the first fault. On failure the returned string is empty.
//
// Bytes that are not valid UTF-8 are copied through unchanged and count as
// one position each.
func Scan(pattern string, lookup LookupFunc) (string, *ScanError) {
	if !strings.ContainsAny(pattern, BraceChars) {
		return pattern, nil
	}

	var out strings.Builder
	out.Grow(len(pattern))
	var key strings.Builder
	key.Grow(keyBufferSize)

	pendingOpen, pendingClose := NoPosition, NoPosition
	pos := 0

	for i := 0; i < len(pattern); pos++ {
		ch, size := utf8.DecodeRuneInString(pattern[i:])
		text := pattern[i : i+size]
		i += size

		switch ch {
		case CharOpenBrace:
			switch {
			case pendingOpen == NoPosition:
				pendingOpen = pos
			case pendingOpen+1 == pos:
				out.WriteRune(CharOpenBrace)
				pendingOpen = NoPosition
			default:
				return "", newTokenError(pendingOpen, DescUnmatchedOpen)
			}

		case CharCloseBrace:
			switch {
			case pendingClose != NoPosition && pendingClose+1 == pos:
				out.WriteRune(CharCloseBrace)
				pendingClose = NoPosition
			case pendingClose != NoPosition:
				return "", newTokenError(pendingClose, DescUnmatchedClose)
			case pendingOpen != NoPosition:
				value, ok := lookup(key.String())
				if !ok {
					return "", &ScanError{Kind: ScanErrorKey, Position: pendingOpen, Key: key.String()}
				}
				out.WriteString(value)
				key.Reset()
				pendingOpen = NoPosition
			default:
				pendingClose = pos
			}

		default:
			if pendingOpen != NoPosition {
				key.WriteString(text)
			} else {
				out.WriteString(text)
			}
		}
	}

	if pendingOpen != NoPosition {
		return "", newTokenError(pendingOpen, DescUnmatchedOpen)
	}
	if pendingClose != NoPosition {
		return "", newTokenError(pendingClose, DescUnmatchedClose)
	}

	return out.String(), nil
}

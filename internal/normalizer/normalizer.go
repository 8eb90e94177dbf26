// Package normalizer rewrites dictionary words before they are indexed.
// The edit-distance metric itself compares runes as they are; anything
// that should count as equal has to be made equal here.
package normalizer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Mode selects how words are normalized.
type Mode string

const (
	// None leaves words untouched.
	None Mode = "none"
	// NFC composes words to Unicode normal form C, so "é" written as
	// "e" + combining accent and as a single rune are the same word.
	NFC Mode = "nfc"
	// Lower is NFC followed by lowercasing.
	Lower Mode = "lower"
	// Fold lowercases and strips combining marks, so "Çare" becomes "care".
	Fold Mode = "fold"
)

// ErrUnknownMode is returned by ParseMode for unrecognized names.
var ErrUnknownMode = errors.New("unknown normalize mode")

// ParseMode parses a mode name. The empty string means None.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return None, nil
	case None, NFC, Lower, Fold:
		return m, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Modes lists the supported modes.
func Modes() []Mode {
	return []Mode{None, NFC, Lower, Fold}
}

// Normalize applies mode to word. Unknown modes leave the word unchanged.
// It is safe for concurrent use.
func Normalize(mode Mode, word string) string {
	switch mode {
	case NFC:
		return norm.NFC.String(word)
	case Lower:
		return lower(norm.NFC.String(word))
	case Fold:
		return fold(word)
	default:
		return word
	}
}

// fold decomposes, drops combining marks and recomposes.
func fold(word string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, word)
	if err != nil {
		return lower(word)
	}
	// Letters that do not decompose (ı, ß, ł) are left as they are.
	return lower(folded)
}

// lower builds a new Caser per call; Casers are stateful.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

package codelai

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// matchCase mirrors the casing of match onto translation: all-upper and
// all-lower matches are copied, anything else capitalizes the first rune.
// A match without cased letters keeps the stored translation.
func matchCase(match, translation string) string {
	upper, lower := strings.ToUpper(match), strings.ToLower(match)
	switch {
	case upper == lower:
		return translation
	case match == upper:
		return strings.ToUpper(translation)
	case match == lower:
		return strings.ToLower(translation)
	default:
		return capitalize(translation)
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

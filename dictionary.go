package codelai

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Entry is one dictionary key with its translation and compiled matcher.
type Entry struct {
	Key         string // Lowercased term or alias
	Translation string
	matcher     *regexp2.Regexp
}

// Dictionary is an immutable set of entries ordered by descending key length,
// so multi-word phrases match before the shorter terms they contain.
type Dictionary struct {
	entries     []Entry
	fingerprint string
}

// NewDictionary builds a dictionary from the records of a term collection.
// Each record contributes its term and then its aliases; the first occurrence
// of a key wins. Records from defaults only fill keys that are still missing.
func NewDictionary(records []TermRecord, defaults []TermRecord) (*Dictionary, error) {
	var keys []string
	translations := make(map[string]string)

	add := func(rec TermRecord) {
		translation := strings.TrimSpace(rec.Translation)
		if translation == "" {
			return
		}
		for _, raw := range append([]string{rec.Term}, rec.Aliases...) {
			key := strings.ToLower(strings.TrimSpace(raw))
			if key == "" {
				continue
			}
			if _, exists := translations[key]; exists {
				continue
			}
			translations[key] = translation
			keys = append(keys, key)
		}
	}

	for _, rec := range records {
		add(rec)
	}
	for _, rec := range defaults {
		add(rec)
	}

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		matcher, err := compileMatcher(key)
		if err != nil {
			return nil, &DictionaryError{
				Message: fmt.Sprintf("compiling matcher for %q", key),
				Cause:   err,
			}
		}
		entries = append(entries, Entry{Key: key, Translation: translations[key], matcher: matcher})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return utf8.RuneCountInString(entries[i].Key) > utf8.RuneCountInString(entries[j].Key)
	})

	return &Dictionary{entries: entries, fingerprint: fingerprintEntries(entries)}, nil
}

// wordClass is the character class \b treats as word characters.
const wordClass = `[\p{L}\p{Mn}\p{Nd}\p{Pc}]`

// compileMatcher builds the case-insensitive matcher for a key.
// Plain word keys use \b; keys with spaces or punctuation use lookaround on
// the same word class instead, because \b next to a non-word character
// matches in the wrong places.
func compileMatcher(key string) (*regexp2.Regexp, error) {
	escaped := regexp2.Escape(key)

	pattern := `(?<!` + wordClass + `)` + escaped + `(?!` + wordClass + `)`
	if isWordKey(key) {
		pattern = `\b` + escaped + `\b`
	}

	return regexp2.Compile(pattern, regexp2.IgnoreCase)
}

func isWordKey(key string) bool {
	for i := 0; i < len(key); i++ {
		if !isWordByte(key[i]) {
			return false
		}
	}
	return key != ""
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Apply substitutes every entry over text, longest key first, mirroring the
// case of each match onto its translation.
func (d *Dictionary) Apply(text string) string {
	if d == nil || text == "" {
		return text
	}

	out := text
	lower := strings.ToLower(out)
	for i := range d.entries {
		e := &d.entries[i]
		if !strings.Contains(lower, e.Key) {
			continue
		}

		replaced, err := e.matcher.ReplaceFunc(out, func(m regexp2.Match) string {
			return matchCase(m.String(), e.Translation)
		}, -1, -1)
		if err != nil || replaced == out {
			continue
		}
		out = replaced
		lower = strings.ToLower(out)
	}

	return out
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Entries returns a copy of the ordered entries.
func (d *Dictionary) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Fingerprint identifies the dictionary content.
func (d *Dictionary) Fingerprint() string {
	return d.fingerprint
}

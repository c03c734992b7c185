package codelai

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of text.
// Whitespace is significant in source code, so the input is hashed verbatim.
func HashText(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a result cache key from a code hash, language and dictionary fingerprint.
// Including the fingerprint makes every cached result stale once the dictionary changes.
func CacheKey(hash string, lang Language, fingerprint string) string {
	return hash + ":" + string(lang) + ":" + fingerprint
}

// fingerprintEntries hashes the ordered key/translation pairs of a dictionary.
func fingerprintEntries(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Key)
		b.WriteByte(0)
		b.WriteString(e.Translation)
		b.WriteByte('\n')
	}
	return HashText(b.String())
}

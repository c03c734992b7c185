// Package cache provides result cache implementations for the translator.
package cache

import (
	"context"

	"github.com/ZaguanLabs/codelai"
)

// Cache memoizes serialized translation results by key.
type Cache interface {
	codelai.ResultCache
}

// Enumerable is implemented by caches whose live entries can be listed.
// Export requires it.
type Enumerable interface {
	Cache

	// Entries returns every unexpired entry.
	Entries(ctx context.Context) (map[string]string, error)
}

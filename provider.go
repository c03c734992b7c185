package codelai

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// TermSource is the upstream term collection. It is read in full once per
// dictionary cache lifetime.
type TermSource interface {
	Terms(ctx context.Context) ([]TermRecord, error)
}

// StaticTerms is an in-memory TermSource.
type StaticTerms []TermRecord

// Terms returns the records.
func (s StaticTerms) Terms(ctx context.Context) ([]TermRecord, error) {
	return s, nil
}

// DictionaryProvider hands out the current dictionary.
type DictionaryProvider interface {
	// Dictionary returns the memoized dictionary, building it on first use.
	Dictionary(ctx context.Context) (*Dictionary, error)

	// Invalidate drops the memoized dictionary so the next call rebuilds it.
	Invalidate()
}

// CachedDictionary memoizes the dictionary built from a TermSource.
// Concurrent first calls share one in-flight build.
type CachedDictionary struct {
	source   TermSource
	defaults []TermRecord
	logger   *slog.Logger

	group      singleflight.Group
	mu         sync.RWMutex
	dict       *Dictionary
	generation uint64
}

// CachedDictionaryOption configures a CachedDictionary.
type CachedDictionaryOption func(*CachedDictionary)

// WithDefaults replaces the built-in vocabulary. Pass nil to disable it.
func WithDefaults(defaults []TermRecord) CachedDictionaryOption {
	return func(c *CachedDictionary) {
		c.defaults = defaults
	}
}

// WithDictionaryLogger sets the logger used to report builds.
func WithDictionaryLogger(logger *slog.Logger) CachedDictionaryOption {
	return func(c *CachedDictionary) {
		c.logger = logger
	}
}

// NewCachedDictionary creates a provider reading from source.
func NewCachedDictionary(source TermSource, opts ...CachedDictionaryOption) *CachedDictionary {
	c := &CachedDictionary{
		source:   source,
		defaults: DefaultVocabulary,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const buildKey = "dictionary"

// Dictionary returns the memoized dictionary, building it on first use.
// A failed build is not cached; the error is returned to every waiter.
func (c *CachedDictionary) Dictionary(ctx context.Context) (*Dictionary, error) {
	c.mu.RLock()
	dict, gen := c.dict, c.generation
	c.mu.RUnlock()
	if dict != nil {
		return dict, nil
	}

	// The build outlives any single waiter; each waiter only stops waiting.
	buildCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(buildKey, func() (any, error) {
		return c.build(buildCtx, gen)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Dictionary), nil
	}
}

func (c *CachedDictionary) build(ctx context.Context, gen uint64) (*Dictionary, error) {
	c.mu.RLock()
	if c.dict != nil {
		dict := c.dict
		c.mu.RUnlock()
		return dict, nil
	}
	c.mu.RUnlock()

	records, err := c.source.Terms(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "dictionary build failed", slog.Any("error", err))
		return nil, &DictionaryError{Message: "reading term source", Cause: err}
	}

	dict, err := NewDictionary(records, c.defaults)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generation == gen {
		c.dict = dict
	}
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "dictionary built",
		slog.Int("records", len(records)),
		slog.Int("entries", dict.Len()),
		slog.String("fingerprint", dict.Fingerprint()[:12]),
	)
	return dict, nil
}

// Invalidate drops the memoized dictionary so the next call rebuilds it.
// A build already in flight still answers its waiters but is not stored.
func (c *CachedDictionary) Invalidate() {
	c.mu.Lock()
	c.dict = nil
	c.generation++
	c.mu.Unlock()
	c.group.Forget(buildKey)
}

var _ DictionaryProvider = (*CachedDictionary)(nil)

package codelai

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
)

// Rewriter rewrites the translatable spans of source code in one or more languages.
type Rewriter interface {
	// Rewrite returns the rewritten source. A *ProcessorError means the
	// source could not be processed and the caller should fall back.
	Rewrite(ctx context.Context, code string, lang Language, dict *Dictionary) (*Rewrite, error)

	// Languages lists the language tags this rewriter handles.
	Languages() []Language
}

// ResultCache memoizes translation results by key.
type ResultCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}

// Translator is the main translation engine. It resolves the language,
// obtains the dictionary and dispatches to the rewriter for that language.
type Translator struct {
	dictionaries DictionaryProvider
	rewriters    map[Language]Rewriter
	cache        ResultCache
	logger       *slog.Logger
	concurrency  int
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithRewriter registers a rewriter for every language it reports.
// Later registrations replace earlier ones.
func WithRewriter(rewriter Rewriter) TranslatorOption {
	return func(t *Translator) {
		for _, lang := range rewriter.Languages() {
			t.rewriters[lang] = rewriter
		}
	}
}

// WithCache sets the result cache.
func WithCache(cache ResultCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) TranslatorOption {
	return func(t *Translator) {
		t.logger = logger
	}
}

// WithConcurrency bounds the number of requests TranslateAll runs at once.
func WithConcurrency(n int) TranslatorOption {
	return func(t *Translator) {
		t.concurrency = n
	}
}

// NewTranslator creates a Translator that reads terms from dictionaries.
// Languages without a registered rewriter use the plain-text fallback.
func NewTranslator(dictionaries DictionaryProvider, opts ...TranslatorOption) *Translator {
	t := &Translator{
		dictionaries: dictionaries,
		rewriters:    make(map[Language]Rewriter),
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Translate rewrites the human-readable text in code. language is an
// optional hint; an empty hint triggers detection.
func (t *Translator) Translate(ctx context.Context, code string, language string) (*Result, error) {
	if strings.TrimSpace(code) == "" {
		lang := LangPlain
		if strings.TrimSpace(language) != "" {
			lang = NormalizeLanguage(language)
		}
		return &Result{Language: lang, Code: code, Segments: []Segment{}}, nil
	}

	lang := DetectLanguage(code, language)

	dict, err := t.dictionaries.Dictionary(ctx)
	if err != nil {
		return nil, err
	}

	key := CacheKey(HashText(code), lang, dict.Fingerprint())
	if cached, ok := t.lookup(ctx, key); ok {
		return cached, nil
	}

	result, err := t.rewrite(ctx, code, lang, dict)
	if err != nil {
		return nil, err
	}

	t.store(ctx, key, result)
	return result, nil
}

// Reset drops the memoized dictionary. Cached results keyed by the old
// dictionary fingerprint stop matching once the rebuilt dictionary differs.
func (t *Translator) Reset() {
	t.dictionaries.Invalidate()
}

// Languages returns the languages with a registered rewriter, sorted.
func (t *Translator) Languages() []Language {
	langs := make([]Language, 0, len(t.rewriters))
	for lang := range t.rewriters {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

func (t *Translator) rewrite(ctx context.Context, code string, lang Language, dict *Dictionary) (*Result, error) {
	rewriter, ok := t.rewriters[lang]
	if !ok {
		return Fallback(code, lang, dict), nil
	}

	out, err := rewriter.Rewrite(ctx, code, lang, dict)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		t.logger.DebugContext(ctx, "rewriter failed, using plain-text fallback",
			slog.String("language", string(lang)),
			slog.Any("error", err),
		)
		return Fallback(code, lang, dict), nil
	}

	segments := out.Segments
	if segments == nil {
		segments = []Segment{}
	}
	return &Result{
		Language:            lang,
		Code:                out.Code,
		Segments:            segments,
		StringReplacements:  out.StringReplacements,
		CommentReplacements: out.CommentReplacements,
	}, nil
}

// Fallback applies every dictionary entry to the whole input. It reports at
// most one text segment spanning the input and never counts replacements.
func Fallback(code string, lang Language, dict *Dictionary) *Result {
	translated := dict.Apply(code)
	segments := []Segment{}
	if translated != code {
		segments = append(segments, Segment{
			Kind:        KindText,
			Original:    code,
			Translated:  translated,
			StartOffset: 0,
			EndOffset:   len(code),
		})
	}
	return &Result{
		Language:     lang,
		Code:         translated,
		UsedFallback: true,
		Segments:     segments,
	}
}

func (t *Translator) lookup(ctx context.Context, key string) (*Result, bool) {
	if t.cache == nil {
		return nil, false
	}

	raw, ok, err := t.cache.Get(ctx, key)
	if err != nil {
		t.logger.WarnContext(ctx, "result cache read failed",
			slog.Any("error", &CacheError{Message: "get", Cause: err}))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		t.logger.WarnContext(ctx, "discarding undecodable cached result", slog.String("key", key))
		return nil, false
	}
	if result.Segments == nil {
		result.Segments = []Segment{}
	}
	return &result, true
}

func (t *Translator) store(ctx context.Context, key string, result *Result) {
	if t.cache == nil {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := t.cache.Set(ctx, key, string(raw)); err != nil {
		t.logger.WarnContext(ctx, "result cache write failed",
			slog.Any("error", &CacheError{Message: "set", Cause: err}))
	}
}

package codelai

import "fmt"

// DictionaryError indicates the dictionary could not be built.
// It is never recovered locally: the whole Translate call fails.
type DictionaryError struct {
	Message string
	Cause   error
}

func (e *DictionaryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("dictionary error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("dictionary error: %s", e.Message)
}

func (e *DictionaryError) Unwrap() error {
	return e.Cause
}

// SourceError indicates the backing term collection could not be read.
type SourceError struct {
	Source    string // Kind of source: "file", "postgres", "sqlite", ...
	Message   string
	Cause     error
	Retryable bool // Whether the read can be retried
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("term source %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("term source %s: %s", e.Source, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ProcessorError indicates a rewriter could not process the source (parse failure, etc.).
type ProcessorError struct {
	Message  string
	Cause    error
	Language Language // The language that failed to process
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processor error (%s): %s: %v", e.Language, e.Message, e.Cause)
	}
	return fmt.Sprintf("processor error (%s): %s", e.Language, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}

package codelai

import (
	"errors"
	"testing"
)

func TestDictionaryError(t *testing.T) {
	cause := &SourceError{Source: "postgres", Message: "query terms", Retryable: true}
	err := &DictionaryError{Message: "build failed", Cause: cause}

	expected := "dictionary error: build failed: term source postgres: query terms"
	if err.Error() != expected {
		t.Errorf("unexpected error message: %s, want %s", err.Error(), expected)
	}

	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		t.Fatal("errors.As should find the SourceError")
	}
	if !srcErr.Retryable {
		t.Error("source error should be retryable")
	}
}

func TestSourceError(t *testing.T) {
	err := &SourceError{Source: "file", Message: "missing path"}

	if err.Error() != "term source file: missing path" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestCacheError(t *testing.T) {
	err := &CacheError{Message: "connection failed"}

	if err.Error() != "cache error: connection failed" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestProcessorError(t *testing.T) {
	err := &ProcessorError{Message: "parse failed", Language: LangTS}

	if err.Error() != "processor error (ts): parse failed" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

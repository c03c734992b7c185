package codelai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func fastRetry(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}
}

func TestWithRetry_Success(t *testing.T) {
	callCount := 0
	result, err := WithRetry(context.Background(), fastRetry(3), func() (string, error) {
		callCount++
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result != "ok" {
		t.Errorf("Expected 'ok', got %q", result)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
}

func TestWithRetry_RetryableError(t *testing.T) {
	callCount := 0
	result, err := WithRetry(context.Background(), fastRetry(3), func() (int, error) {
		callCount++
		if callCount < 3 {
			return 0, &SourceError{Source: "postgres", Message: "connection reset", Retryable: true}
		}
		return 42, nil
	})

	if err != nil {
		t.Fatalf("Expected no error after retries, got: %v", err)
	}
	if result != 42 {
		t.Errorf("Expected 42, got %d", result)
	}
	if callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", callCount)
	}
}

func TestWithRetry_NonRetryableError(t *testing.T) {
	callCount := 0
	_, err := WithRetry(context.Background(), fastRetry(3), func() (string, error) {
		callCount++
		return "", &SourceError{Source: "file", Message: "no such file"}
	})

	if err == nil {
		t.Fatal("Expected error for non-retryable error")
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call for non-retryable error, got %d", callCount)
	}
}

func TestWithRetry_MaxRetriesExceeded(t *testing.T) {
	callCount := 0
	_, err := WithRetry(context.Background(), fastRetry(2), func() (string, error) {
		callCount++
		return "", &SourceError{Source: "postgres", Message: "timeout", Retryable: true}
	})

	if err == nil {
		t.Fatal("Expected error after max retries")
	}

	// Initial attempt + 2 retries
	if callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", callCount)
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	cfg := RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := WithRetry(ctx, cfg, func() (string, error) {
		return "", &SourceError{Source: "postgres", Message: "busy", Retryable: true}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"retryable source error", &SourceError{Retryable: true}, true},
		{"non-retryable source error", &SourceError{Retryable: false}, false},
		{"wrapped retryable", fmt.Errorf("loading: %w", &SourceError{Retryable: true}), true},
		{"generic error", errors.New("some error"), false},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsRetryable(tt.err)
			if result != tt.expected {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

type flakySource struct {
	failCount int
	callCount int
}

func (s *flakySource) Terms(ctx context.Context) ([]TermRecord, error) {
	s.callCount++
	if s.callCount <= s.failCount {
		return nil, &SourceError{Source: "postgres", Message: "temporary failure", Retryable: true}
	}
	return []TermRecord{{Term: "user", Translation: "usuario"}}, nil
}

func TestRetryingSource(t *testing.T) {
	inner := &flakySource{failCount: 2}
	source := NewRetryingSource(inner, fastRetry(3), nil)

	records, err := source.Terms(context.Background())
	if err != nil {
		t.Fatalf("Expected success after retries, got: %v", err)
	}
	if len(records) != 1 || records[0].Translation != "usuario" {
		t.Errorf("Unexpected records: %v", records)
	}
	if inner.callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", inner.callCount)
	}
}

func TestRetryingSource_GivesUp(t *testing.T) {
	inner := &flakySource{failCount: 10}
	source := NewRetryingSource(inner, fastRetry(1), nil)

	_, err := source.Terms(context.Background())

	var sourceErr *SourceError
	if !errors.As(err, &sourceErr) {
		t.Fatalf("Expected *SourceError, got %v", err)
	}
	if inner.callCount != 2 {
		t.Errorf("Expected 2 calls, got %d", inner.callCount)
	}
}

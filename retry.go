package codelai

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries
}

// DefaultRetryConfig returns the defaults used for database term sources.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  200 * time.Millisecond,
		MaxDelay:   5 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes fn with exponential backoff while it fails with a
// retryable error.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !IsRetryable(err) {
			return zero, err
		}

		if attempt < cfg.MaxRetries {
			delay := cfg.BaseDelay * time.Duration(1<<attempt)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return zero, lastErr
}

// IsRetryable reports whether err is a transient term source failure.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var sourceErr *SourceError
	if errors.As(err, &sourceErr) {
		return sourceErr.Retryable
	}

	return false
}

// RetryingSource wraps a TermSource with retry logic.
type RetryingSource struct {
	source TermSource
	config RetryConfig
	logger *slog.Logger
}

// NewRetryingSource creates a TermSource that retries transient failures of source.
func NewRetryingSource(source TermSource, cfg RetryConfig, logger *slog.Logger) *RetryingSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryingSource{
		source: source,
		config: cfg,
		logger: logger,
	}
}

// Terms implements TermSource.
func (s *RetryingSource) Terms(ctx context.Context) ([]TermRecord, error) {
	attempt := 0
	return WithRetry(ctx, s.config, func() ([]TermRecord, error) {
		attempt++
		records, err := s.source.Terms(ctx)
		if err != nil && IsRetryable(err) && attempt <= s.config.MaxRetries {
			s.logger.WarnContext(ctx, "term source read failed, retrying",
				slog.Int("attempt", attempt),
				slog.Any("error", err),
			)
		}
		return records, err
	})
}

var _ TermSource = (*RetryingSource)(nil)

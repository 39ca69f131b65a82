// Package retry provides a context-aware retry loop with pluggable backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MultiError aggregates the error of every failed attempt
type MultiError struct {
	Errors   []error
	Attempts int
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "retry failed"
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("retry failed after %d attempt(s): %s", e.Attempts, strings.Join(msgs, "; "))
}

// Unwrap exposes the last error for errors.Is / errors.As
func (e *MultiError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[len(e.Errors)-1]
}

// Do runs the operation, retrying on failure.
// Returns the last errors aggregated when every attempt failed.
func Do(ctx context.Context, operation func() error, opts ...Option) error {
	_, err := DoWithData(ctx, func() (struct{}, error) {
		return struct{}{}, operation()
	}, opts...)
	return err
}

// DoWithData runs the operation and returns its data, retrying on failure
func DoWithData[T any](ctx context.Context, operation func() (T, error), opts ...Option) (T, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var result T
	var errs []error

	for attempt := 1; attempt <= cfg.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		var err error
		if cfg.timeout > 0 {
			opCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
			result, err = executeWithContext(opCtx, operation)
			cancel()
		} else {
			result, err = operation()
		}

		if err == nil {
			return result, nil
		}
		errs = append(errs, err)

		if attempt == cfg.maxAttempts || !cfg.shouldRetry(err, attempt) {
			return result, &MultiError{Errors: errs, Attempts: attempt}
		}

		if cfg.onRetry != nil {
			cfg.onRetry(attempt, err)
		}

		backoff := cfg.backoff.Next(attempt)
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < backoff {
			// not enough time left for another round
			errs = append(errs, context.DeadlineExceeded)
			return result, &MultiError{Errors: errs, Attempts: attempt}
		}

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		}
	}

	return result, &MultiError{Errors: errs, Attempts: cfg.maxAttempts}
}

// executeWithContext runs the operation in a goroutine so a per-attempt
// timeout can interrupt it
func executeWithContext[T any](ctx context.Context, operation func() (T, error)) (T, error) {
	type outcome struct {
		data T
		err  error
	}

	ch := make(chan outcome, 1)
	go func() {
		data, err := operation()
		ch <- outcome{data: data, err: err}
	}()

	select {
	case res := <-ch:
		return res.data, res.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Attempts returns the attempt count recorded in a retry error
func Attempts(err error) int {
	var multiErr *MultiError
	if errors.As(err, &multiErr) {
		return multiErr.Attempts
	}
	return 0
}

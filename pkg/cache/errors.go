package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound reports that a cached scene or artifact does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNetwork reports a transport failure talking to a remote cache,
	// such as a redis timeout or a dropped connection.
	ErrNetwork = errors.New("network error")

	// ErrCacheMiss reports that a key was looked up and absent.
	ErrCacheMiss = errors.New("cache miss")
)

// RetryableError marks an error as transient. The redis backend wraps
// connection failures with it so a flaky broker does not immediately fail
// a render that could succeed on the next attempt.
type RetryableError struct{ Err error }

// Retryable wraps err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is (or wraps) a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff runs fn up to 3 times, doubling the delay between
// attempts starting from one second. Only errors marked with Retryable
// trigger another attempt; anything else is returned to the caller as-is.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := time.Second

	var lastErr error
	for i := 0; i < attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		lastErr = err

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}

package retry

import (
	"errors"
	"time"
)

const (
	// DefaultAttempts is the number of tries before an operation is
	// considered failed for good.
	DefaultAttempts = 3

	// DefaultBaseDelay is the wait after the first failure; it doubles
	// after every subsequent failure.
	DefaultBaseDelay = 1 * time.Second
)

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying; Do and Value return the
// wrapped error immediately. Use it for failures a retry cannot change,
// like constraint violations or rows that do not exist.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs op up to DefaultAttempts times with exponential backoff
// (1s, 2s, ...), returning the first success or the last error. There is
// no cancellation: an attempt runs to completion or failure.
func Do(op func() error) error {
	return DoWith(DefaultAttempts, DefaultBaseDelay, op)
}

// DoWith is Do with explicit attempt count and base delay.
func DoWith(attempts int, baseDelay time.Duration, op func() error) error {
	var lastErr error
	delay := baseDelay
	for attempt := 0; attempt < attempts; attempt++ {
		if err := op(); err != nil {
			var perm *permanentError
			if errors.As(err, &perm) {
				return perm.err
			}
			lastErr = err
			if attempt < attempts-1 {
				time.Sleep(delay)
				delay *= 2
			}
			continue
		}
		return nil
	}
	return lastErr
}

// Value runs op like Do but carries a result.
func Value[T any](op func() (T, error)) (T, error) {
	var result T
	err := Do(func() error {
		var opErr error
		result, opErr = op()
		return opErr
	})
	return result, err
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNetwork marks a backend that could not be reached. Callers treat it as
// a miss and render from scratch.
var ErrNetwork = errors.New("cache backend unreachable")

// retryAttempts and retryDelay bound RetryWithBackoff.
const (
	retryAttempts = 3
	retryDelay    = time.Second
)

// RetryableError marks a failure worth trying again.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. It returns nil for nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// redisError classifies a go-redis failure.
//
// Replies from the server, such as WRONGTYPE or OOM, are returned as they
// are: the command reached Redis and repeating it will not help. Context
// errors are returned unwrapped. Everything else is a transport failure and
// becomes a retryable ErrNetwork.
func redisError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var reply redis.Error
	if errors.As(err, &reply) {
		return fmt.Errorf("redis %s %s: %w", op, key, err)
	}
	return Retryable(fmt.Errorf("%w: redis %s %s: %v", ErrNetwork, op, key, err))
}

// RetryWithBackoff calls fn until it succeeds, returns an error that is not
// retryable, or has been tried three times. The delay doubles from one
// second between attempts.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	var lastErr error
	for i := range retryAttempts {
		if lastErr = fn(); lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		if i == retryAttempts-1 {
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

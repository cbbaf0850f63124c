package helper

import (
	"context"
	"errors"
	"fmt"
)

var ErrMaxAttempts = errors.New("max attempts reached")

// ContextValueOf looks up key in ctx and asserts it to T.
// ok is false when the key is absent or holds another type.
func ContextValueOf[T any](ctx context.Context, key any) (res T, ok bool) {
	if ctx == nil {
		return
	}
	res, ok = ctx.Value(key).(T)
	return
}

// Retry calls fn until it succeeds, retryable reports false, or maxAttempts is exhausted.
// A nil retryable retries every error.
func Retry(maxAttempts int, retryable func(error) bool, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}
		if attempt >= maxAttempts {
			return fmt.Errorf("%w: %d, %w", ErrMaxAttempts, attempt, err)
		}
	}
}

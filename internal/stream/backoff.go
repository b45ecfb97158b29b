package stream

import (
	"context"
	"runtime"
	"time"
)

// Backoff is called before retrying a read or write that would have
// blocked. attempt counts the retries of the current operation from 0. A
// non-nil error aborts the operation and is returned to the caller.
type Backoff func(attempt int) error

// Spin retries immediately, busy polling the transport.
func Spin(int) error { return nil }

// Yield lets other goroutines run before retrying.
func Yield(int) error {
	runtime.Gosched()
	return nil
}

// Sleep waits d before every retry.
func Sleep(d time.Duration) Backoff {
	return func(int) error {
		time.Sleep(d)
		return nil
	}
}

// WithContext stops retrying with ctx.Err() once ctx is done, otherwise
// it defers to b (or [Spin] when b is nil).
func WithContext(ctx context.Context, b Backoff) Backoff {
	if b == nil {
		b = Spin
	}
	return func(attempt int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return b(attempt)
	}
}

// Package poll implements a generic condition-polling engine with bounded
// backoff. It is the primitive underneath every asynchronous UI wait in
// boardsweep: "keep checking until the page agrees, a deadline passes, or
// the caller gives up".
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Defaults applied by Config.withDefaults when a field is zero.
const (
	DefaultTimeout     = 5 * time.Second
	DefaultInterval    = 50 * time.Millisecond
	DefaultMaxInterval = time.Second
	DefaultBackoff     = 1.5
)

// ErrTimeout is returned when polling exhausts its wall-clock budget without
// the condition producing a value, and the condition never raised an error
// of its own.
var ErrTimeout = errors.New("timed out waiting for condition")

// ErrAborted is returned when the context is cancelled before the condition
// produces a value. The cancellation cause is wrapped into the message.
var ErrAborted = errors.New("polling aborted")

// Config controls a single polling call. The zero value is usable; zero
// fields fall back to the package defaults above.
type Config struct {
	// Timeout bounds the whole call, independent of how long individual
	// condition checks take.
	Timeout time.Duration
	// Interval is the delay before the second check (the first check runs
	// immediately).
	Interval time.Duration
	// MaxInterval caps the growing delay between checks.
	MaxInterval time.Duration
	// Backoff multiplies the delay after every unsuccessful check.
	Backoff float64
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = DefaultMaxInterval
	}
	if c.Backoff <= 1 {
		c.Backoff = DefaultBackoff
	}
	return c
}

// next returns the delay before the following check, growing the current
// delay by the backoff factor and capping it at MaxInterval.
func (c Config) next(cur time.Duration) time.Duration {
	grown := time.Duration(float64(cur) * c.Backoff)
	if grown > c.MaxInterval {
		return c.MaxInterval
	}
	return grown
}

// Condition is evaluated repeatedly by Until. It reports ok=true once it has
// produced a usable value. Returning an error does not stop polling: the most
// recent error is remembered and surfaced if the call ultimately times out,
// so a transient DOM-query failure can be retried silently while still
// explaining why nothing was ever found.
type Condition[T any] func(ctx context.Context) (T, bool, error)

// Until evaluates cond until it produces a value, cfg.Timeout elapses, or ctx
// is cancelled.
//
// On timeout the last error raised by cond (if any) is returned in place of
// ErrTimeout, since it is the more specific explanation. Cancellation always
// wins over a would-be success on the next check: once ctx is done, Until
// returns ErrAborted wrapping the cancellation cause.
//
// The timeout clock runs independently of the check loop, so a slow or
// never-returning growth of intervals cannot postpone termination.
func Until[T any](ctx context.Context, cfg Config, cond Condition[T]) (T, error) {
	cfg = cfg.withDefaults()
	var zero T

	deadline := time.NewTimer(cfg.Timeout)
	defer deadline.Stop()

	wait := time.NewTimer(0)
	if !wait.Stop() {
		<-wait.C
	}
	defer wait.Stop()

	interval := cfg.Interval
	var lastErr error

	for {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("%w: %v", ErrAborted, context.Cause(ctx))
		}

		v, ok, err := cond(ctx)
		if err != nil {
			lastErr = err
		} else if ok {
			return v, nil
		}

		wait.Reset(interval)
		interval = cfg.next(interval)

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("%w: %v", ErrAborted, context.Cause(ctx))
		case <-deadline.C:
			if lastErr != nil {
				return zero, lastErr
			}
			return zero, fmt.Errorf("%w after %v", ErrTimeout, cfg.Timeout)
		case <-wait.C:
		}
	}
}

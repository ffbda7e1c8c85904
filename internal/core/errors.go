package core

import (
	"errors"
	"fmt"
)

// ErrActionFailed marks a UI-trigger step that explicitly reported it could
// not perform its action, e.g. none of the archive-item fallback selectors
// matched inside a menu that did appear.
var ErrActionFailed = errors.New("action failed")

// ErrUnknown wraps panic values recovered from a driver step, so that one
// misbehaving step is folded into the attempt's error state like any other
// failure instead of tearing down the run.
var ErrUnknown = errors.New("unknown error")

// runStep invokes one driver step, converting a panic into an ErrUnknown.
// No error from a single step may escape past the attempt loop.
func runStep(f func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			if e, ok := v.(error); ok {
				err = fmt.Errorf("%w: %w", ErrUnknown, e)
				return
			}
			err = fmt.Errorf("%w: %v", ErrUnknown, v)
		}
	}()
	return f()
}

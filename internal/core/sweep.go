package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"boardsweep/internal/log"
)

// Retry defaults for the attempt loop. RetryDelay doubles as the pause
// between candidates, throttling UI interaction so the run never races the
// host application's own re-render cycle.
const (
	DefaultRetries    = 3
	DefaultRetryDelay = 150 * time.Millisecond
)

// Driver is the boundary between the orchestrator and the UI being driven.
// The browser package implements it against a live page; tests fake it.
type Driver interface {
	// Gone reports whether the candidate's element is already absent from
	// the page.
	Gone(ctx context.Context, c Candidate) (bool, error)
	// ScrollIntoView brings the candidate's element into the viewport.
	// Best effort; failures are logged, never fatal.
	ScrollIntoView(ctx context.Context, c Candidate) error
	// RevealMenu opens the row's contextual menu and waits for it to
	// appear.
	RevealMenu(ctx context.Context, c Candidate) error
	// TriggerArchive activates the archive action inside the revealed
	// menu.
	TriggerArchive(ctx context.Context, c Candidate) error
	// ConfirmArchived waits until the candidate's element is gone or
	// marked archived.
	ConfirmArchived(ctx context.Context, c Candidate) error
}

// Options configures one archival run.
type Options struct {
	// Retries bounds the attempts per candidate.
	Retries int
	// RetryDelay is the pause between attempts and between candidates.
	RetryDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.Retries <= 0 {
		o.Retries = DefaultRetries
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	return o
}

// Archive drives the target UI through archiving each candidate in input
// order, emitting a progress event after every state transition and
// returning a summary of the whole run.
//
// The run never fails wholesale: per-candidate and per-attempt errors are
// captured as Failure entries, so one bad candidate cannot abort the rest.
// Candidates are processed strictly one at a time; the UI being driven can
// only host one in-flight action.
func Archive(ctx context.Context, d Driver, candidates []Candidate, opts Options, onProgress ProgressFunc) Summary {
	opts = opts.withDefaults()
	logger := log.LoggerFromContext(ctx)

	r := &run{total: len(candidates), onProgress: onProgress}
	r.emit(StatusInitializing, fmt.Sprintf("archiving %d task(s)", r.total), nil, nil)

	for i, c := range candidates {
		r.emit(StatusAttemptStarted,
			fmt.Sprintf("archiving %q (attempt 1 of %d)", c.Title, opts.Retries),
			&CurrentItem{Candidate: c, Attempt: 1}, nil)

		res := attempt(ctx, d, c, opts, logger)
		r.processed++
		if res.Archived {
			r.archived++
			ok := true
			r.emit(StatusItemArchived,
				fmt.Sprintf("archived %q after %d attempt(s)", c.Title, res.Attempts),
				&CurrentItem{Candidate: c, Attempt: res.Attempts, Archived: &ok}, nil)
		} else {
			f := Failure{Candidate: c, Attempts: res.Attempts, Err: res.Err}
			r.failures = append(r.failures, f)
			ok := false
			r.emit(StatusItemFailed,
				fmt.Sprintf("failed to archive %q after %d attempt(s): %s", c.Title, res.Attempts, f.Message()),
				&CurrentItem{Candidate: c, Attempt: res.Attempts, Archived: &ok}, nil)
		}

		if i < len(candidates)-1 {
			sleep(ctx, opts.RetryDelay)
		}
	}

	sum := Summary{
		Total:    r.total,
		Archived: r.archived,
		Failures: append([]Failure(nil), r.failures...),
	}
	r.emit(StatusComplete,
		fmt.Sprintf("run complete: %d of %d archived, %d failed", sum.Archived, sum.Total, sum.Failed()),
		nil, &sum)
	return sum
}

// attempt runs the reveal→trigger→confirm cycle for one candidate, up to
// opts.Retries times. Step failures are folded into the last-error state and
// the loop moves on; only a confirmed disappearance ends it early.
//
// A candidate whose element is already detached before a try is treated as
// archived: confirmation passes trivially. That deliberately conflates
// "removed by other means" with "archived", matching the host application's
// observable behavior.
func attempt(ctx context.Context, d Driver, c Candidate, opts Options, logger *slog.Logger) AttemptResult {
	var lastErr error
	for try := 1; try <= opts.Retries; try++ {
		if gone, err := d.Gone(ctx, c); err == nil && gone {
			return AttemptResult{Archived: true, Attempts: try}
		}

		if err := runStep(func() error { return d.ScrollIntoView(ctx, c) }); err != nil {
			logger.Warn("scroll into view failed",
				slog.String("row", c.RowID), slog.String("err", err.Error()))
		}

		err := runStep(func() error { return d.RevealMenu(ctx, c) })
		if err == nil {
			err = runStep(func() error { return d.TriggerArchive(ctx, c) })
		}
		if err == nil {
			if err = runStep(func() error { return d.ConfirmArchived(ctx, c) }); err == nil {
				return AttemptResult{Archived: true, Attempts: try}
			}
		}
		lastErr = err

		if try < opts.Retries {
			sleep(ctx, opts.RetryDelay)
		}
	}
	return AttemptResult{Attempts: opts.Retries, Err: lastErr}
}

// run accumulates counters for one Archive call and snapshots them into
// progress events.
type run struct {
	total      int
	processed  int
	archived   int
	failures   []Failure
	onProgress ProgressFunc
}

func (r *run) emit(status Status, msg string, cur *CurrentItem, sum *Summary) {
	if r.onProgress == nil {
		return
	}
	r.onProgress(Progress{
		Status:    status,
		Message:   msg,
		Total:     r.total,
		Processed: r.processed,
		Archived:  r.archived,
		Failed:    len(r.failures),
		Failures:  append([]Failure(nil), r.failures...),
		Current:   cur,
		Summary:   sum,
	})
}

// sleep waits for d, returning early if ctx is cancelled. A cancelled
// context does not stop the run; subsequent steps surface the abort as
// per-candidate failures instead.
func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

package core

// Status tags a progress event with the run state it was emitted from.
type Status string

const (
	// StatusInitializing opens every run, before any candidate is touched.
	StatusInitializing Status = "run-initializing"
	// StatusAttemptStarted marks the first attempt on a candidate.
	StatusAttemptStarted Status = "attempt-started"
	// StatusItemArchived marks a candidate confirmed gone.
	StatusItemArchived Status = "item-archived"
	// StatusItemFailed marks a candidate whose retries were exhausted.
	StatusItemFailed Status = "item-failed"
	// StatusComplete closes every run and carries the summary.
	StatusComplete Status = "run-complete"
)

// CurrentItem scopes a progress event to one candidate.
type CurrentItem struct {
	Candidate Candidate
	// Attempt numbering restarts at 1 for every candidate.
	Attempt int
	// Archived is set on item-archived and item-failed events, nil
	// otherwise.
	Archived *bool
}

// Progress is an immutable snapshot of run state at one instant. The failure
// list is copied at emission time, never aliased to the run's live slice.
type Progress struct {
	Status    Status
	Message   string
	Total     int
	Processed int
	Archived  int
	Failed    int
	Failures  []Failure
	// Current is present on item-scoped events only.
	Current *CurrentItem
	// Summary is present on the terminal event only.
	Summary *Summary
}

// ProgressFunc receives every progress event synchronously as it is
// produced. A nil ProgressFunc disables reporting without affecting the run.
type ProgressFunc func(Progress)

package core

// Candidate is one unit of archivable work discovered on the board. The
// element it points at is addressed by a stable CSS selector rather than a
// live node reference, because the host application re-renders rows at will
// and a node id from one render is garbage in the next.
type Candidate struct {
	// RowID is the host application's identity for the row, used for
	// logging and run-history records.
	RowID string
	// Selector locates the row in the live page.
	Selector string
	// Denormalized display attributes captured at scan time.
	Title  string
	Tags   []string
	Status string
}

// AttemptResult is the outcome of the retry loop for a single candidate.
type AttemptResult struct {
	// Archived reports whether the candidate was confirmed gone.
	Archived bool
	// Attempts is the number of tries actually consumed.
	Attempts int
	// Err is the last error captured across the tries; set only when
	// Archived is false.
	Err error
}

// Failure records a candidate whose retries were exhausted. Immutable once
// appended to a run's failure list.
type Failure struct {
	Candidate Candidate
	Attempts  int
	Err       error
}

// Message returns the human-readable reason for the failure.
func (f Failure) Message() string {
	if f.Err == nil {
		return "archive attempts exhausted"
	}
	return f.Err.Error()
}

// Summary aggregates one archival run. It is built once, after the last
// candidate, and shared between the terminal progress event and the caller.
type Summary struct {
	Total    int
	Archived int
	Failures []Failure
}

// Failed is the number of candidates that exhausted their retries.
func (s Summary) Failed() int {
	return len(s.Failures)
}

package db

// Run is one recorded archival run.
type Run struct {
	ID int64
	// StartedAt and FinishedAt are stored in the DB as RFC3339 text.
	StartedAt  string
	FinishedAt string
	Total      int
	Archived   int
	Failed     int
}

// RunFailure is one exhausted candidate within a recorded run.
type RunFailure struct {
	ID       int64
	RunID    int64
	RowID    string
	Title    string
	Attempts int
	Error    string
}

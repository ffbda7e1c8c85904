package db

import (
	"database/sql"
	"fmt"
	"time"

	"boardsweep/internal/core"
)

// RecordRun persists a run summary and its failures in one transaction,
// returning the new run id.
func (db *DB) RecordRun(sum core.Summary, startedAt, finishedAt time.Time) (int64, error) {
	tx, err := db.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	res, err := tx.Exec(`
		INSERT INTO runs (started_at, finished_at, total, archived, failed)
		VALUES (?, ?, ?, ?, ?)
	`, startedAt.Format(time.RFC3339), finishedAt.Format(time.RFC3339),
		sum.Total, sum.Archived, sum.Failed())
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	for _, f := range sum.Failures {
		if _, err := tx.Exec(`
			INSERT INTO run_failures (run_id, row_id, title, attempts, error)
			VALUES (?, ?, ?, ?, ?)
		`, runID, f.Candidate.RowID, f.Candidate.Title, f.Attempts, f.Message()); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to record run failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run record: %w", err)
	}
	return runID, nil
}

// ListRuns returns recorded runs, most recent first. A limit of 0 returns
// all of them.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT id, started_at, finished_at, total, archived, failed
		FROM runs
		ORDER BY started_at DESC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = db.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Total, &r.Archived, &r.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListRunFailures returns the failures recorded for one run, in the order
// they were appended during the run.
func (db *DB) ListRunFailures(runID int64) ([]RunFailure, error) {
	rows, err := db.db.Query(`
		SELECT id, run_id, row_id, title, attempts, error
		FROM run_failures
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list run failures: %w", err)
	}
	defer rows.Close()

	var out []RunFailure
	for rows.Next() {
		var f RunFailure
		if err := rows.Scan(&f.ID, &f.RunID, &f.RowID, &f.Title, &f.Attempts, &f.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run failure: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// The sweep command is the main entry point: scan the board for rows
// matching the keyword policy and archive each of them through the board's
// own UI, with retries and a recorded summary.
//
// Example usage:
//
//	boardsweep sweep --attach=ws://127.0.0.1:9222/devtools/browser/<id> --keyword=done
//	boardsweep sweep --config=boardsweep.yml --limit=10 --retries=5
package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"boardsweep/internal/core"
	"boardsweep/internal/core/browser"
	"boardsweep/internal/core/config"
	"boardsweep/internal/core/scan"
	ilog "boardsweep/internal/log"
)

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Scan the board and archive matching rows",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSweep(cmd); err != nil {
			log.Fatalf("Sweep failed: %v", err)
		}
	},
}

// runSweep is the main function for the sweep command.
func runSweep(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if f := cmd.Flags(); f.Changed("retries") {
		cfg.Run.Retries, _ = f.GetInt("retries")
	}
	if f := cmd.Flags(); f.Changed("retry-delay") {
		d, _ := f.GetDuration("retry-delay")
		cfg.Run.RetryDelayMS = int(d.Milliseconds())
	}
	if f := cmd.Flags(); f.Changed("confirm-timeout") {
		d, _ := f.GetDuration("confirm-timeout")
		cfg.Run.ConfirmTimeoutMS = int(d.Milliseconds())
	}

	database, err := initDB(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer closeDB(database)

	ctx := ilog.ContextWithLogger(context.Background(), slog.Default())

	session, candidates, err := discover(ctx, cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	if len(candidates) == 0 {
		log.Println("No matching tasks to archive.")
		return nil
	}
	log.Printf("Archiving %d task(s)...", len(candidates))

	driver := browser.NewDriver(session, cfg.Selectors, cfg.Run)
	opts := core.Options{
		Retries:    cfg.Run.Retries,
		RetryDelay: cfg.Run.RetryDelay(),
	}

	startedAt := time.Now()
	sum := core.Archive(ctx, driver, candidates, opts, logProgress)
	finishedAt := time.Now()

	if _, err := database.RecordRun(sum, startedAt, finishedAt); err != nil {
		log.Printf("Warning: failed to record run: %v", err)
	}

	for _, f := range sum.Failures {
		log.Printf("Failed: %q (row %s) after %d attempt(s): %s",
			f.Candidate.Title, f.Candidate.RowID, f.Attempts, f.Message())
	}
	log.Printf("Run complete: %d of %d archived, %d failed.", sum.Archived, sum.Total, sum.Failed())
	return nil
}

// discover opens the browser session and scans the board for candidates.
// The caller owns the returned session.
func discover(ctx context.Context, cfg *config.Config) (*browser.Session, []core.Candidate, error) {
	matcher, err := scan.NewMatcher(cfg.Policy)
	if err != nil {
		return nil, nil, err
	}

	session, err := browser.NewSession(ctx, browserOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open browser session: %w", err)
	}

	html, err := session.HTML()
	if err != nil {
		session.Close()
		return nil, nil, err
	}

	candidates, err := scan.Parse(html, cfg.Selectors, matcher, cfg.Policy.ScanLimit, ilog.LoggerFromContext(ctx))
	if err != nil {
		session.Close()
		return nil, nil, err
	}
	return session, candidates, nil
}

// logProgress renders every progress event as one log line.
func logProgress(p core.Progress) {
	log.Printf("[%s] %s (%d/%d processed, %d archived, %d failed)",
		p.Status, p.Message, p.Processed, p.Total, p.Archived, p.Failed)
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	addSessionFlags(sweepCmd)
	sweepCmd.Flags().Int("retries", core.DefaultRetries, "Attempts per row before recording a failure")
	sweepCmd.Flags().Duration("retry-delay", core.DefaultRetryDelay, "Delay between attempts and between rows")
	sweepCmd.Flags().Duration("confirm-timeout", 4*time.Second, "How long to wait for an archived row to disappear")
}

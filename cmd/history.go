// The history command lists past sweep runs from the run-history database,
// or the recorded failures of one run.
package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past sweep runs and their outcomes",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runHistory(cmd); err != nil {
			log.Fatalf("History failed: %v", err)
		}
	},
}

func runHistory(cmd *cobra.Command) error {
	database, err := initDB(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer closeDB(database)

	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}
	if runID > 0 {
		failures, err := database.ListRunFailures(runID)
		if err != nil {
			return err
		}
		if len(failures) == 0 {
			log.Printf("No failures recorded for run %d.", runID)
			return nil
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Row", "Title", "Attempts", "Error"})
		for _, f := range failures {
			table.Append([]string{f.RowID, f.Title, strconv.Itoa(f.Attempts), f.Error})
		}
		table.SetBorder(false)
		table.Render()
		return nil
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runs, err := database.ListRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		log.Println("No runs recorded yet.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Started", "Finished", "Total", "Archived", "Failed"})
	for _, r := range runs {
		table.Append([]string{
			strconv.FormatInt(r.ID, 10),
			r.StartedAt,
			r.FinishedAt,
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Archived),
			strconv.Itoa(r.Failed),
		})
	}
	table.SetBorder(false)
	table.Render()
	return nil
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Int64("run", 0, "Show the recorded failures of this run id")
	historyCmd.Flags().Int("limit", 20, "Maximum runs to list (0 = all)")
}

// The scan command is a dry run: it lists the rows the keyword policy would
// archive, without touching any of them.
package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	ilog "boardsweep/internal/log"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the rows that would be archived, without archiving",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runScan(cmd); err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
	},
}

func runScan(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := ilog.ContextWithLogger(context.Background(), slog.Default())
	session, candidates, err := discover(ctx, cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	if len(candidates) == 0 {
		log.Println("No rows match the policy.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Row", "Title", "Tags", "Status"})
	for _, c := range candidates {
		table.Append([]string{c.RowID, c.Title, strings.Join(c.Tags, ", "), c.Status})
	}
	table.SetBorder(false)
	table.Render()

	log.Printf("%d row(s) would be archived.", len(candidates))
	return nil
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addSessionFlags(scanCmd)
}

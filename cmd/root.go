package cmd

import (
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"boardsweep/internal/core/browser"
	"boardsweep/internal/core/config"
	"boardsweep/internal/core/db"
	ilog "boardsweep/internal/log"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "boardsweep",
	Short: "Archive matching task rows by driving the board's own UI",
	Long: `boardsweep attaches to a Chrome session showing a task board, finds rows
matching a keyword policy, and archives them the way a person would: open
the row menu, click archive, wait for the row to disappear. Failed rows are
retried a bounded number of times and every run is summarized and recorded.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = slog.LevelDebug
		}
		ilog.Initialize(level)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("db", "d", "boardsweep.db", "Path to the SQLite run-history database")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file (env vars apply either way)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

func initDB(cmd *cobra.Command) (*db.DB, error) {
	dbPath, err := cmd.Flags().GetString("db")
	if err != nil {
		return nil, err
	}
	database, err := db.NewSQLiteDB(dbPath)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// loadConfig reads the config file named by --config (or environment only)
// and layers any changed command flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cmd, cfg)
	return cfg, nil
}

// addSessionFlags registers the browser and policy flags shared by the
// commands that open a page.
func addSessionFlags(c *cobra.Command) {
	c.Flags().String("attach", "", "DevTools websocket URL of a running browser to attach to")
	c.Flags().String("chrome-path", "", "Path to Chrome/Chromium executable (launch mode)")
	c.Flags().Bool("headful", false, "Run a launched Chrome with a visible window (not headless)")
	c.Flags().String("board-url", "", "Board URL to open when launching a browser")
	c.Flags().StringSlice("keyword", nil, "Keyword the title or tags must contain (repeatable)")
	c.Flags().String("ignore-regex", "", "Rows matching this expression are never candidates")
	c.Flags().Int("limit", 0, "Maximum candidates considered per scan")
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("attach") {
		cfg.Browser.AttachURL, _ = f.GetString("attach")
	}
	if f.Changed("chrome-path") {
		cfg.Browser.ChromePath, _ = f.GetString("chrome-path")
	}
	if f.Changed("headful") {
		headful, _ := f.GetBool("headful")
		cfg.Browser.Headless = !headful
	}
	if f.Changed("board-url") {
		cfg.Browser.BoardURL, _ = f.GetString("board-url")
	}
	if f.Changed("keyword") {
		cfg.Policy.Keywords, _ = f.GetStringSlice("keyword")
	}
	if f.Changed("ignore-regex") {
		cfg.Policy.IgnoreRegex, _ = f.GetString("ignore-regex")
	}
	if f.Changed("limit") {
		cfg.Policy.ScanLimit, _ = f.GetInt("limit")
	}
}

func browserOptions(cfg *config.Config) browser.Options {
	chromePath := cfg.Browser.ChromePath
	if chromePath == "" && runtime.GOOS == "darwin" {
		// Best-effort default for macOS.
		chromePath = "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"
	}
	return browser.Options{
		AttachURL:  cfg.Browser.AttachURL,
		ChromePath: chromePath,
		Headless:   cfg.Browser.Headless,
		BoardURL:   cfg.Browser.BoardURL,
	}
}

func closeDB(database *db.DB) {
	if err := database.Close(); err != nil {
		log.Printf("failed to close database: %v", err)
	}
}

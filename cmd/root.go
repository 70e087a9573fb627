package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Default values may be set at compile time.
	version          = "0.1.0"
	buildDate        = "2026-01-02T03:04+0000"
	stackDumpOnPanic bool
)

var rootCmd = &cobra.Command{
	Use:   "gscsync",
	Short: "Sync Google Search Console search analytics into BigQuery",
	Long: `gscsync pulls search analytics data for a verified site property and appends
it to BigQuery tables. Loads are idempotent: each row carries a content-derived
unique key, so re-running a window never duplicates data. Days with no source
activity are filled with zero-metric placeholder rows so coverage gaps are
visible downstream.

Configure named site profiles with "gscsync config" or supply everything with
flags. Every flag can also be set via a GSCSYNC_* environment variable.`,
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.PersistentFlags().BoolVar(&stackDumpOnPanic, "print-stack", false, "Print a stack dump if there is a panic")
	_ = rootCmd.PersistentFlags().MarkHidden("print-stack")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Execute() prints the error.
		os.Exit(1)
	}
}

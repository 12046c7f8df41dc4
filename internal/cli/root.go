package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "handora",
	Short: "Backend for the Handora hand-rehabilitation games",
	Long: `handora is the backend for the Handora hand-rehabilitation gaming platform.

It records per-session gameplay telemetry for the three mini-games, computes
baseline-relative scores, mirrors sessions to a remote datastore, and proxies
aggregated metrics to a language model for short natural-language summaries.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// Package cli implements the CourtSight command-line interface using
// Cobra. Each subcommand maps to one model-operations capability
// (monitor, policy, worker, jobs, serve).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "courtsight",
	Short: "CourtSight — NBA prediction model operations",
	Long: `CourtSight keeps the NBA prediction models honest.
It monitors model quality, decides when a retrain is warranted,
and runs the retrain job queue.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// seasonFlag is shared by every subcommand that evaluates one season.
var seasonFlag string

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

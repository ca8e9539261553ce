// Package cli implements the reconctl operations command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reconctl",
	Short: "Operations CLI for the invoice reconciliation dashboard",
	Long: `reconctl provides operational commands for the reconciliation
dashboard: seeding development fixtures and queueing document
reprocessing outside the HTTP API.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "reconctl: %v\n", err)
		os.Exit(1)
	}
}

// Package cli provides the cobra command tree for txn-insights.
package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "txn-insights",
		Short: "Aggregate reports and an AI summary for payment transaction exports",
		Long: `txn-insights - aggregate reports for payment transaction exports

Runs a fixed battery of aggregate queries over a transaction CSV, saves each
result with a short description, and asks Gemini for a business summary of the
combined reports.`,
		SilenceErrors: true, // main logs the error
		SilenceUsage:  true,
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		newRunCmd(),
		newQueryCmd(),
		newListCmd(),
	)

	return rootCmd
}

// Execute runs the root command with the given output writers.
func Execute(stdout, stderr io.Writer) error {
	rootCmd := NewRootCmd()
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.Execute()
}

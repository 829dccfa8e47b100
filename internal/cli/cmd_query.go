package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dvloznov/transaction-insights/internal/analytics"
	"github.com/dvloznov/transaction-insights/internal/storage"
)

func newQueryCmd() *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "query <name>",
		Short: "Run one analysis and print it as CSV",
		Long: `Run one analysis and print the result as CSV on stdout.
Nothing is written to the output directory. See 'txn-insights list' for names.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ok := analytics.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown analysis %q (see 'txn-insights list')", args[0])
			}

			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			ctx, _ := newContext(cmd.ErrOrStderr(), cfg, newRunID())

			lib, err := newLibrary(cfg, storage.NewGCSService())
			if err != nil {
				return err
			}

			table, err := a.Run(ctx, lib, cfg.Input.Path)
			if err != nil {
				return err
			}
			return table.WriteCSV(cmd.OutOrStdout())
		},
	}

	flags.register(cmd, false)

	return cmd
}

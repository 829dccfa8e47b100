package cli

import (
	"github.com/spf13/cobra"

	"github.com/dvloznov/transaction-insights/internal/pipeline"
	"github.com/dvloznov/transaction-insights/internal/storage"
)

func newRunCmd() *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every report, then summarize them with Gemini",
		Long: `Run every report against the transaction CSV.

The output directory is emptied of regular files first. Each report is saved as
<name>.csv with a <name>.txt description. When GEMINI_API_KEY is set the combined
reports are summarized into ai_final_summary.txt; a failed summary does not fail
the run. With TXN_PUBLISH_BUCKET set the output directory is uploaded afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			runID := newRunID()
			ctx, log := newContext(cmd.ErrOrStderr(), cfg, runID)

			objects := storage.NewGCSService()
			lib, err := newLibrary(cfg, objects)
			if err != nil {
				return err
			}

			_, err = pipeline.Run(ctx, cfg.Input.Path, cfg.Output.Dir, pipeline.Deps{
				Library:       lib,
				Objects:       objects,
				NewSummarizer: newSummarizerFactory(cfg),
				Stdout:        cmd.OutOrStdout(),
				Publish: pipeline.PublishConfig{
					Bucket: cfg.Publish.Bucket,
					Prefix: cfg.Publish.Prefix,
				},
				RunID: runID,
			})
			if err != nil {
				return err
			}

			log.Info().Str("output", cfg.Output.Dir).Msg("transaction analysis completed successfully")
			return nil
		},
	}

	flags.register(cmd, true)

	return cmd
}

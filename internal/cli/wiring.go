package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dvloznov/transaction-insights/internal/analytics"
	"github.com/dvloznov/transaction-insights/internal/config"
	"github.com/dvloznov/transaction-insights/internal/logger"
	"github.com/dvloznov/transaction-insights/internal/pipeline"
	"github.com/dvloznov/transaction-insights/internal/storage"
	"github.com/dvloznov/transaction-insights/internal/summarizer"
)

// dotEnvFile is loaded from the working directory before reading the environment.
const dotEnvFile = ".env"

// sourceFlags are the overrides shared by run and query.
type sourceFlags struct {
	input  string
	output string
	engine string
}

func (f *sourceFlags) register(cmd *cobra.Command, withOutput bool) {
	cmd.Flags().StringVar(&f.input, "input", "", "transaction CSV path or gs:// URI (default $TXN_INPUT_FILE)")
	cmd.Flags().StringVar(&f.engine, "engine", "", "query engine: local or bigquery (default $TXN_ENGINE)")
	if withOutput {
		cmd.Flags().StringVar(&f.output, "output", "", "report output directory (default $TXN_OUTPUT_DIR)")
	}
}

// loadConfig reads .env and the environment, applies flag overrides and validates.
func loadConfig(f sourceFlags) (config.Config, error) {
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		return config.Config{}, err
	}

	cfg := config.Load()
	if f.input != "" {
		cfg.Input.Path = f.input
	}
	if f.output != "" {
		cfg.Output.Dir = f.output
	}
	if f.engine != "" {
		cfg.Engine.Kind = f.engine
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newContext attaches a run-scoped logger writing to stderr.
func newContext(stderr io.Writer, cfg config.Config, runID string) (context.Context, zerolog.Logger) {
	log := logger.WithRunID(logger.NewForFormat(stderr, cfg.Log.Format, cfg.Log.Level), runID)
	return logger.WithContext(context.Background(), log), log
}

func newRunID() string {
	return uuid.NewString()
}

func newLibrary(cfg config.Config, objects *storage.GCSService) (analytics.Library, error) {
	switch cfg.Engine.Kind {
	case config.EngineLocal:
		return analytics.NewLocalEngine(objects), nil
	case config.EngineBigQuery:
		return analytics.NewWarehouseEngine(cfg.Engine.ProjectID, cfg.Engine.Location), nil
	default:
		return nil, fmt.Errorf("newLibrary: unknown engine %q", cfg.Engine.Kind)
	}
}

func newSummarizerFactory(cfg config.Config) pipeline.SummarizerFactory {
	return func(ctx context.Context) (summarizer.Summarizer, error) {
		return summarizer.NewGemini(ctx, summarizer.Config{
			APIKey:     cfg.Summarizer.APIKey,
			Model:      cfg.Summarizer.Model,
			APIVersion: cfg.Summarizer.APIVersion,
			Language:   cfg.Summarizer.Language,
		})
	}
}

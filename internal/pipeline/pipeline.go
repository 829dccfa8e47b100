// Package pipeline runs the analysis battery end to end: input check, every
// report in order, corpus assembly, AI summary and optional publishing.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/dvloznov/transaction-insights/internal/analytics"
	"github.com/dvloznov/transaction-insights/internal/logger"
	"github.com/dvloznov/transaction-insights/internal/output"
)

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Steps returns the step names in execution order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}

// Execute runs all steps sequentially and stops at the first error.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	base := logger.FromContext(ctx)
	for i, step := range p.steps {
		log := logger.WithFields(base, map[string]interface{}{
			"step":      i + 1,
			"step_name": step.Name(),
		})
		log.Debug().Msg("running step")

		if err := step.Execute(logger.WithContext(ctx, log), state); err != nil {
			return fmt.Errorf("pipeline step %d (%s) failed: %w", i+1, step.Name(), err)
		}
	}
	return nil
}

// PublishConfig enables PublishStep when Bucket is set.
type PublishConfig struct {
	Bucket string
	Prefix string
}

// Deps are the collaborators of a run.
type Deps struct {
	Library analytics.Library
	// Objects is needed for gs:// input and for publishing.
	Objects ObjectStore
	// Writer defaults to a fresh output.Writer, so every run clears the
	// output directory once.
	Writer        ReportWriter
	NewSummarizer SummarizerFactory
	Stdout        io.Writer
	Publish       PublishConfig
	RunID         string
}

// NewAnalysisPipeline wires the standard step list.
func NewAnalysisPipeline(deps Deps) *Pipeline {
	writer := deps.Writer
	if writer == nil {
		writer = output.NewWriter()
	}

	steps := []PipelineStep{
		&CheckInputStep{Objects: deps.Objects},
		&CountRowsStep{Library: deps.Library},
	}
	for _, a := range analytics.Reports() {
		steps = append(steps, &ReportStep{Analysis: a, Library: deps.Library, Writer: writer})
	}
	steps = append(steps,
		&BuildCorpusStep{},
		&SummarizeStep{NewSummarizer: deps.NewSummarizer, Stdout: deps.Stdout},
	)
	if deps.Publish.Bucket != "" {
		steps = append(steps, &PublishStep{
			Objects: deps.Objects,
			Bucket:  deps.Publish.Bucket,
			Prefix:  deps.Publish.Prefix,
		})
	}

	return NewPipeline(steps...)
}

// Run analyzes source and writes every report to outputDir.
func Run(ctx context.Context, source, outputDir string, deps Deps) (*PipelineState, error) {
	state := &PipelineState{
		Source:    source,
		OutputDir: outputDir,
		RunID:     deps.RunID,
	}

	log := logger.FromContext(ctx)
	log.Info().Str("source", source).Str("output", outputDir).Msg("transaction analysis starting")

	if err := NewAnalysisPipeline(deps).Execute(ctx, state); err != nil {
		return state, err
	}

	log.Info().Int("reports", len(state.Reports)).Msg("transaction analysis completed")
	return state, nil
}

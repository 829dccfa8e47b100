package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/transaction-insights/internal/analytics"
	"github.com/dvloznov/transaction-insights/internal/logger"
	"github.com/dvloznov/transaction-insights/internal/report"
	"github.com/dvloznov/transaction-insights/internal/storage"
	"github.com/dvloznov/transaction-insights/internal/summarizer"
)

// PipelineStep represents a single step of an analysis run.
type PipelineStep interface {
	Name() string
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	Source    string
	OutputDir string
	RunID     string

	RowCount    int64
	Reports     []string
	Corpus      string
	Summary     string
	SummaryPath string
	Published   []string
}

// Step 1: CheckInputStep fails with ErrInputNotFound when the source is absent.
type CheckInputStep struct {
	Objects ObjectStore
}

func (s *CheckInputStep) Name() string { return "check_input" }

func (s *CheckInputStep) Execute(ctx context.Context, state *PipelineState) error {
	log := logger.FromContext(ctx)

	name := filepath.Base(state.Source)
	if storage.IsGCSURI(state.Source) {
		name = storage.ExtractFilename(state.Source)
		if s.Objects == nil {
			return fmt.Errorf("CheckInputStep: no object store for %s: %w", state.Source, ErrInputNotFound)
		}
		ok, err := s.Objects.Exists(ctx, state.Source)
		if err != nil {
			return fmt.Errorf("CheckInputStep: checking %s: %w", state.Source, err)
		}
		if !ok {
			return fmt.Errorf("CheckInputStep: %s: %w", state.Source, ErrInputNotFound)
		}
	} else {
		fi, err := os.Stat(state.Source)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && fi.IsDir()) {
			return fmt.Errorf("CheckInputStep: %s: %w", state.Source, ErrInputNotFound)
		}
		if err != nil {
			return fmt.Errorf("CheckInputStep: stat %s: %w", state.Source, err)
		}
	}

	log.Info().Str("file", name).Str("source", state.Source).Msg("file connected")
	return nil
}

// Step 2: CountRowsStep records the size of the source.
type CountRowsStep struct {
	Library analytics.Library
}

func (s *CountRowsStep) Name() string { return "count_rows" }

func (s *CountRowsStep) Execute(ctx context.Context, state *PipelineState) error {
	n, err := s.Library.RowCount(ctx, state.Source)
	if err != nil {
		return err
	}
	state.RowCount = n

	log := logger.FromContext(ctx)
	log.Info().Int64("rows", n).Msg("source loaded")
	return nil
}

// Step 3: ReportStep runs one analysis and saves it right away.
type ReportStep struct {
	Analysis analytics.Analysis
	Library  analytics.Library
	Writer   ReportWriter
}

func (s *ReportStep) Name() string { return "report:" + s.Analysis.Name }

func (s *ReportStep) Execute(ctx context.Context, state *PipelineState) error {
	table, err := s.Analysis.Run(ctx, s.Library, state.Source)
	if err != nil {
		return err
	}

	p, err := s.Writer.WriteReport(ctx, state.OutputDir, &report.Report{
		Name:        s.Analysis.Name,
		Description: s.Analysis.Description,
		Table:       table,
	})
	if err != nil {
		return err
	}
	state.Reports = append(state.Reports, p)
	return nil
}

// Step 4: BuildCorpusStep concatenates the saved CSV reports.
type BuildCorpusStep struct{}

func (s *BuildCorpusStep) Name() string { return "build_corpus" }

func (s *BuildCorpusStep) Execute(ctx context.Context, state *PipelineState) error {
	corpus, err := BuildCorpus(state.OutputDir)
	if err != nil {
		return err
	}
	state.Corpus = corpus
	return nil
}

// BuildCorpus reads every *.csv in dir in file-name order, each preceded by a
// "--- Report: <name> ---" header line.
func BuildCorpus(dir string) (string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return "", fmt.Errorf("BuildCorpus: listing %s: %w", dir, err)
	}
	sort.Strings(files)

	var b strings.Builder
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return "", fmt.Errorf("BuildCorpus: reading %s: %w", f, err)
		}
		b.WriteString("\n--- Report: " + filepath.Base(f) + " ---\n")
		b.Write(data)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Step 5: SummarizeStep asks the model for a summary of the corpus. Any
// *summarizer.Error is logged and the run carries on without a summary.
type SummarizeStep struct {
	NewSummarizer SummarizerFactory
	Stdout        io.Writer
}

func (s *SummarizeStep) Name() string { return "summarize" }

func (s *SummarizeStep) Execute(ctx context.Context, state *PipelineState) error {
	log := logger.FromContext(ctx)

	if state.Corpus == "" {
		log.Warn().Msg("no report data found for AI analysis")
		return nil
	}
	if s.NewSummarizer == nil {
		log.Warn().Msg("no summarizer configured, skipping AI analysis")
		return nil
	}

	sum, err := s.NewSummarizer(ctx)
	if err != nil {
		return recoverSummaryError(ctx, err)
	}

	summary, err := sum.Summarize(ctx, state.Corpus)
	if err != nil {
		return recoverSummaryError(ctx, err)
	}
	state.Summary = summary

	printSummary(s.Stdout, summary)

	p := filepath.Join(state.OutputDir, SummaryFileName)
	if err := os.WriteFile(p, []byte(summary), 0o644); err != nil {
		return fmt.Errorf("SummarizeStep: writing %s: %w", p, err)
	}
	state.SummaryPath = p

	log.Info().Str("path", p).Msg("AI summary saved")
	return nil
}

func recoverSummaryError(ctx context.Context, err error) error {
	var serr *summarizer.Error
	if !errors.As(err, &serr) {
		return err
	}

	log := logger.FromContext(ctx)
	log.Error().
		Err(serr.Err).
		Str("kind", string(serr.Kind)).
		Msg("AI analysis failed")
	return nil
}

func printSummary(w io.Writer, summary string) {
	if w == nil {
		w = os.Stdout
	}
	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(w, "\n%s\nGEMINI AI SUMMARY REPORT:\n%s\n%s\n%s\n", rule, rule, summary, rule)
}

// Step 6: PublishStep uploads every file of the output directory to
// gs://<bucket>/<prefix>/<run-id>/.
type PublishStep struct {
	Objects     ObjectStore
	Bucket      string
	Prefix      string
	Concurrency int
}

func (s *PublishStep) Name() string { return "publish" }

func (s *PublishStep) Execute(ctx context.Context, state *PipelineState) error {
	if s.Objects == nil {
		return fmt.Errorf("PublishStep: no object store configured for bucket %q", s.Bucket)
	}

	entries, err := os.ReadDir(state.OutputDir)
	if err != nil {
		return fmt.Errorf("PublishStep: reading %s: %w", state.OutputDir, err)
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = DefaultPublishConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var objects []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		object := path.Join(s.Prefix, state.RunID, e.Name())
		file := filepath.Join(state.OutputDir, e.Name())
		objects = append(objects, object)

		g.Go(func() error {
			return s.Objects.UploadFile(gctx, s.Bucket, object, file)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("PublishStep: %w", err)
	}
	state.Published = objects

	log := logger.FromContext(ctx)
	log.Info().
		Str("bucket", s.Bucket).
		Str("prefix", path.Join(s.Prefix, state.RunID)).
		Int("files", len(objects)).
		Msg("output published")
	return nil
}

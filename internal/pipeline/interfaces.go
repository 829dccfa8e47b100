package pipeline

import (
	"context"

	"github.com/dvloznov/transaction-insights/internal/report"
	"github.com/dvloznov/transaction-insights/internal/summarizer"
)

// ObjectStore is the Cloud Storage surface the pipeline needs: checking a
// gs:// input and publishing the output directory.
type ObjectStore interface {
	Exists(ctx context.Context, uri string) (bool, error)
	UploadFile(ctx context.Context, bucket, object, filePath string) error
}

// ReportWriter persists one report into a directory and returns the CSV path.
type ReportWriter interface {
	WriteReport(ctx context.Context, dir string, r *report.Report) (string, error)
}

// SummarizerFactory builds the summarizer lazily, after all reports are
// written, so a configuration failure cannot affect them.
type SummarizerFactory func(ctx context.Context) (summarizer.Summarizer, error)

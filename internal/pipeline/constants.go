package pipeline

import "errors"

// SummaryFileName is written to the output directory when summarization succeeds.
const SummaryFileName = "ai_final_summary.txt"

// DefaultPublishConcurrency bounds parallel uploads in PublishStep.
const DefaultPublishConcurrency = 4

// ErrInputNotFound is returned before any query runs when the source does not exist.
var ErrInputNotFound = errors.New("input file not found")

const bannerWidth = 50

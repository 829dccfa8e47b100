// Package summarizer turns the combined report corpus into a natural-language
// business summary using a hosted Gemini model.
package summarizer

import (
	"context"
	"errors"
	"fmt"
)

// Summarizer produces a summary of a report corpus.
type Summarizer interface {
	Summarize(ctx context.Context, corpus string) (string, error)
}

// Kind classifies a summarization failure.
type Kind string

const (
	KindConfig        Kind = "config"
	KindTransport     Kind = "transport"
	KindEmptyResponse Kind = "empty_response"
)

// Error is returned for every summarization failure. Callers treat it as
// non-fatal.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("summarizer %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrMissingAPIKey is wrapped in a KindConfig error when no credential is set.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// Config selects the model and response language.
type Config struct {
	APIKey     string
	Model      string
	APIVersion string
	// Language is a BCP-47 tag, e.g. "ru".
	Language string
}

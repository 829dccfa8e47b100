package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// generator is the slice of the genai Models service used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini summarizes with one GenerateContent call per corpus.
type Gemini struct {
	models   generator
	model    string
	language string
}

var _ Summarizer = (*Gemini)(nil)

// NewGemini creates a Gemini API client. A missing API key yields a
// KindConfig error.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &Error{Kind: KindConfig, Err: ErrMissingAPIKey}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: cfg.APIVersion},
	})
	if err != nil {
		return nil, &Error{Kind: KindConfig, Err: fmt.Errorf("NewGemini: create genai client: %w", err)}
	}

	return newGemini(client.Models, cfg), nil
}

func newGemini(models generator, cfg Config) *Gemini {
	return &Gemini{models: models, model: cfg.Model, language: cfg.Language}
}

// Summarize sends the corpus with the analysis instructions and returns the
// model's text as received. A blank response is KindEmptyResponse.
func (g *Gemini) Summarize(ctx context.Context, corpus string) (string, error) {
	prompt := BuildPrompt(g.language, corpus)

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &Error{Kind: KindTransport, Err: fmt.Errorf("Summarize: generate content: %w", err)}
	}

	var text string
	if resp != nil {
		text = resp.Text()
	}
	if strings.TrimSpace(text) == "" {
		return "", &Error{Kind: KindEmptyResponse, Err: errors.New("Summarize: empty response from model")}
	}

	return text, nil
}

package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"
)

// MockGenerator is a mock implementation of generator for testing.
type MockGenerator struct {
	GenerateContentFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (m *MockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, model, contents, config)
	}
	return textResponse("ok"), nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Role:  "model",
					Parts: []*genai.Part{{Text: text}},
				},
			},
		},
	}
}

func testConfig() Config {
	return Config{APIKey: "key", Model: "gemini-2.0-flash-lite", APIVersion: "v1beta", Language: "ru"}
}

func TestNewGemini_MissingKey(t *testing.T) {
	_, err := NewGemini(context.Background(), Config{Model: "gemini-2.0-flash-lite"})

	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if serr.Kind != KindConfig {
		t.Errorf("Kind = %q, want %q", serr.Kind, KindConfig)
	}
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("error does not wrap ErrMissingAPIKey")
	}
}

func TestGemini_Summarize(t *testing.T) {
	var gotModel, gotPrompt string
	mock := &MockGenerator{
		GenerateContentFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			gotModel = model
			gotPrompt = contents[0].Parts[0].Text
			return textResponse("  Итоги анализа\u0438\u0306\n"), nil
		},
	}

	summary, err := newGemini(mock, testConfig()).Summarize(context.Background(), "--- Report: a.csv ---\nMID,total_rows\n")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	// Whitespace and the decomposed "й" come back untouched.
	if want := "  Итоги анализа\u0438\u0306\n"; summary != want {
		t.Errorf("summary = %q, want %q", summary, want)
	}
	if gotModel != "gemini-2.0-flash-lite" {
		t.Errorf("model = %q", gotModel)
	}
	if !strings.Contains(gotPrompt, "--- Report: a.csv ---\nMID,total_rows\n") {
		t.Errorf("prompt does not embed the corpus verbatim: %q", gotPrompt)
	}
}

func TestGemini_SummarizeErrors(t *testing.T) {
	tests := []struct {
		name     string
		resp     *genai.GenerateContentResponse
		err      error
		wantKind Kind
	}{
		{"transport", nil, errors.New("connection reset"), KindTransport},
		{"no candidates", &genai.GenerateContentResponse{}, nil, KindEmptyResponse},
		{"blank text", textResponse("   "), nil, KindEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockGenerator{
				GenerateContentFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
					return tt.resp, tt.err
				},
			}

			_, err := newGemini(mock, testConfig()).Summarize(context.Background(), "corpus")
			var serr *Error
			if !errors.As(err, &serr) {
				t.Fatalf("error = %v, want *Error", err)
			}
			if serr.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", serr.Kind, tt.wantKind)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("ru", "DATA")

	if !strings.Contains(p, "Your entire response must be in Russian.") {
		t.Errorf("prompt does not name the target language: %q", p)
	}
	if !strings.HasSuffix(p, "Data for analysis:\nDATA\n") {
		t.Errorf("corpus is not appended at the end: %q", p)
	}
}

func TestLanguageName(t *testing.T) {
	tests := []struct {
		tag, want string
	}{
		{"ru", "Russian"},
		{"en", "English"},
		{"de", "German"},
		{"not a tag!", "not a tag!"},
	}
	for _, tt := range tests {
		if got := LanguageName(tt.tag); got != tt.want {
			t.Errorf("LanguageName(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

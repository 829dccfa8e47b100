package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TXN_INPUT_FILE", "TXN_OUTPUT_DIR", "TXN_ENGINE", "TXN_BQ_PROJECT", "TXN_BQ_LOCATION",
		"GOOGLE_CLOUD_PROJECT", "GEMINI_API_KEY", "TXN_GEMINI_MODEL", "TXN_GEMINI_API_VERSION",
		"TXN_SUMMARY_LANGUAGE", "TXN_PUBLISH_BUCKET", "TXN_PUBLISH_PREFIX", "TXN_LOG_LEVEL", "TXN_LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Input.Path != DefaultInputFile {
		t.Errorf("Input.Path = %q, want %q", cfg.Input.Path, DefaultInputFile)
	}
	if cfg.Output.Dir != DefaultOutputDir {
		t.Errorf("Output.Dir = %q, want %q", cfg.Output.Dir, DefaultOutputDir)
	}
	if cfg.Engine.Kind != EngineLocal {
		t.Errorf("Engine.Kind = %q, want %q", cfg.Engine.Kind, EngineLocal)
	}
	if cfg.Summarizer.Model != DefaultModelName {
		t.Errorf("Summarizer.Model = %q, want %q", cfg.Summarizer.Model, DefaultModelName)
	}
	if cfg.Summarizer.APIVersion != DefaultAPIVersion {
		t.Errorf("Summarizer.APIVersion = %q, want %q", cfg.Summarizer.APIVersion, DefaultAPIVersion)
	}
	if cfg.Summarizer.Language != DefaultLanguage {
		t.Errorf("Summarizer.Language = %q, want %q", cfg.Summarizer.Language, DefaultLanguage)
	}
	if cfg.Summarizer.APIKey != "" {
		t.Errorf("Summarizer.APIKey = %q, want empty", cfg.Summarizer.APIKey)
	}
	if cfg.Publish.Bucket != "" {
		t.Errorf("Publish.Bucket = %q, want empty", cfg.Publish.Bucket)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Log.Format != "console" {
		t.Errorf("Log.Format = %q, want console", cfg.Log.Format)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TXN_INPUT_FILE", "gs://reports/transaction-report.csv")
	t.Setenv("TXN_OUTPUT_DIR", "/tmp/out")
	t.Setenv("TXN_ENGINE", "bigquery")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "acme-analytics")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("TXN_SUMMARY_LANGUAGE", "en")
	t.Setenv("TXN_PUBLISH_BUCKET", "insights")

	cfg := Load()

	if cfg.Input.Path != "gs://reports/transaction-report.csv" {
		t.Errorf("Input.Path = %q", cfg.Input.Path)
	}
	if cfg.Output.Dir != "/tmp/out" {
		t.Errorf("Output.Dir = %q", cfg.Output.Dir)
	}
	if cfg.Engine.Kind != EngineBigQuery {
		t.Errorf("Engine.Kind = %q", cfg.Engine.Kind)
	}
	if cfg.Engine.ProjectID != "acme-analytics" {
		t.Errorf("Engine.ProjectID = %q, want fallback to GOOGLE_CLOUD_PROJECT", cfg.Engine.ProjectID)
	}
	if cfg.Summarizer.APIKey != "secret" {
		t.Errorf("Summarizer.APIKey = %q", cfg.Summarizer.APIKey)
	}
	if cfg.Summarizer.Language != "en" {
		t.Errorf("Summarizer.Language = %q", cfg.Summarizer.Language)
	}
	if cfg.Publish.Bucket != "insights" || cfg.Publish.Prefix != DefaultPublishPrefix {
		t.Errorf("Publish = %+v", cfg.Publish)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Input:  InputConfig{Path: "in.csv"},
			Output: OutputConfig{Dir: "out"},
			Engine: EngineConfig{Kind: EngineLocal},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"local engine", func(c *Config) {}, false},
		{"bigquery with project", func(c *Config) { c.Engine = EngineConfig{Kind: EngineBigQuery, ProjectID: "p"} }, false},
		{"bigquery without project", func(c *Config) { c.Engine = EngineConfig{Kind: EngineBigQuery} }, true},
		{"unknown engine", func(c *Config) { c.Engine.Kind = "duck" }, true},
		{"empty input", func(c *Config) { c.Input.Path = "" }, true},
		{"empty output", func(c *Config) { c.Output.Dir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv on missing file: %v", err)
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("TXN_OUTPUT_DIR=from-dotenv\nTXN_INPUT_FILE=from-dotenv.csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Already-set variables win over the file.
	t.Setenv("TXN_INPUT_FILE", "from-env.csv")
	os.Unsetenv("TXN_OUTPUT_DIR")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	cfg := Load()
	if cfg.Output.Dir != "from-dotenv" {
		t.Errorf("Output.Dir = %q, want from-dotenv", cfg.Output.Dir)
	}
	if cfg.Input.Path != "from-env.csv" {
		t.Errorf("Input.Path = %q, want from-env.csv", cfg.Input.Path)
	}
}

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Engine kinds accepted by TXN_ENGINE.
const (
	EngineLocal    = "local"
	EngineBigQuery = "bigquery"
)

// Default values used when the environment leaves a setting empty.
const (
	DefaultInputFile     = "data/input/transaction-report.csv"
	DefaultOutputDir     = "data/output"
	DefaultModelName     = "gemini-2.0-flash-lite"
	DefaultAPIVersion    = "v1beta"
	DefaultLanguage      = "ru"
	DefaultPublishPrefix = "transaction-insights"
	DefaultBQLocation    = "US"
)

// Config holds all transaction-insights configuration.
type Config struct {
	Input      InputConfig
	Output     OutputConfig
	Engine     EngineConfig
	Summarizer SummarizerConfig
	Publish    PublishConfig
	Log        LogConfig
}

// InputConfig locates the transaction report. Path may be a gs:// URI.
type InputConfig struct {
	Path string
}

// OutputConfig holds the report output directory.
type OutputConfig struct {
	Dir string
}

// EngineConfig selects the analytical engine the queries run on.
type EngineConfig struct {
	Kind      string // "local" or "bigquery"
	ProjectID string
	Location  string
}

// SummarizerConfig holds the Gemini settings.
type SummarizerConfig struct {
	APIKey     string
	Model      string
	APIVersion string
	Language   string // BCP-47 tag of the summary language
}

// PublishConfig enables uploading the output directory to Cloud Storage.
// An empty Bucket disables publishing.
type PublishConfig struct {
	Bucket string
	Prefix string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string // "console" or "json"
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		Input: InputConfig{
			Path: getenv("TXN_INPUT_FILE", DefaultInputFile),
		},
		Output: OutputConfig{
			Dir: getenv("TXN_OUTPUT_DIR", DefaultOutputDir),
		},
		Engine: EngineConfig{
			Kind:      getenv("TXN_ENGINE", EngineLocal),
			ProjectID: getenv("TXN_BQ_PROJECT", os.Getenv("GOOGLE_CLOUD_PROJECT")),
			Location:  getenv("TXN_BQ_LOCATION", DefaultBQLocation),
		},
		Summarizer: SummarizerConfig{
			APIKey:     os.Getenv("GEMINI_API_KEY"),
			Model:      getenv("TXN_GEMINI_MODEL", DefaultModelName),
			APIVersion: getenv("TXN_GEMINI_API_VERSION", DefaultAPIVersion),
			Language:   getenv("TXN_SUMMARY_LANGUAGE", DefaultLanguage),
		},
		Publish: PublishConfig{
			Bucket: os.Getenv("TXN_PUBLISH_BUCKET"),
			Prefix: getenv("TXN_PUBLISH_PREFIX", DefaultPublishPrefix),
		},
		Log: LogConfig{
			Level:  getenv("TXN_LOG_LEVEL", "info"),
			Format: getenv("TXN_LOG_FORMAT", "console"),
		},
	}
}

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables already set take precedence. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("LoadDotEnv: loading %s: %w", path, err)
	}
	return nil
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c Config) Validate() error {
	if c.Input.Path == "" {
		return errors.New("config: input path is empty")
	}
	if c.Output.Dir == "" {
		return errors.New("config: output directory is empty")
	}
	switch c.Engine.Kind {
	case EngineLocal:
	case EngineBigQuery:
		if c.Engine.ProjectID == "" {
			return errors.New("config: TXN_BQ_PROJECT is required for the bigquery engine")
		}
	default:
		return fmt.Errorf("config: unknown engine %q (want %q or %q)", c.Engine.Kind, EngineLocal, EngineBigQuery)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

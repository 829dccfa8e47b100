package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	log := New()
	if log.GetLevel() != zerolog.InfoLevel {
		t.Errorf("Expected info level, got %s", log.GetLevel())
	}
}

func TestNewWithLevel(t *testing.T) {
	log := NewWithLevel("debug")
	if log.GetLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level, got %s", log.GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"  error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("test message")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected output to contain 'test message', got: %s", output)
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	testLog := NewWithWriter(buf)
	ctx := WithContext(context.Background(), testLog)

	retrievedLog := FromContext(ctx)
	retrievedLog.Info().Msg("test")

	if buf.Len() == 0 {
		t.Error("Expected log output from retrieved logger")
	}
}

func TestFromContext_DefaultLogger(t *testing.T) {
	log := FromContext(context.Background())

	if log.GetLevel() == zerolog.Disabled {
		t.Error("Expected default logger to be enabled")
	}
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	logWithFields := WithFields(log, map[string]interface{}{
		"report": "transactions_by_cc_bin",
		"rows":   25,
	})
	logWithFields.Info().Msg("saved")

	output := buf.String()
	if !strings.Contains(output, `"report":"transactions_by_cc_bin"`) {
		t.Errorf("Expected output to contain report field, got: %s", output)
	}
	if !strings.Contains(output, `"rows":25`) {
		t.Errorf("Expected output to contain rows field, got: %s", output)
	}
}

func TestWithRunID(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithRunID(NewWithWriter(buf), "run-123")

	log.Info().Msg("started")

	if !strings.Contains(buf.String(), `"run_id":"run-123"`) {
		t.Errorf("Expected run_id field, got: %s", buf.String())
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsole(&buf, "warn")

	log.Info().Msg("hidden")
	log.Warn().Str("report", "top_20_cc_bins").Msg("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry written at warn level: %q", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "report=top_20_cc_bins") {
		t.Errorf("unexpected console output: %q", out)
	}
}

func TestNewForFormat(t *testing.T) {
	tests := []struct {
		format   string
		wantJSON bool
	}{
		{"json", true},
		{"JSON", true},
		{"console", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewForFormat(&buf, tt.format, "info")
			log.Debug().Msg("hidden")
			log.Info().Str("report", "top_20_cc_bins").Msg("saved")

			out := buf.String()
			if strings.Contains(out, "hidden") {
				t.Errorf("debug entry written at info level: %q", out)
			}
			if got := strings.Contains(out, `"report":"top_20_cc_bins"`); got != tt.wantJSON {
				t.Errorf("JSON output = %v, want %v: %q", got, tt.wantJSON, out)
			}
		})
	}
}

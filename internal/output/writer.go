// Package output persists analysis results to a local directory.
package output

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dvloznov/transaction-insights/internal/logger"
	"github.com/dvloznov/transaction-insights/internal/report"
)

// Writer saves tables and their descriptions. The first write on a Writer
// removes the regular files already present in the target directory; later
// writes only add files.
type Writer struct {
	mu      sync.Mutex
	cleared bool
}

// NewWriter returns a Writer that has not cleared anything yet.
func NewWriter() *Writer {
	return &Writer{}
}

// Write saves table as CSV at path and description next to it with a .txt
// extension.
func (w *Writer) Write(ctx context.Context, table *report.Table, path, description string) error {
	dir := filepath.Dir(path)

	if err := w.clearOnce(ctx, dir); err != nil {
		return fmt.Errorf("Write: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("Write: creating %s: %w", dir, err)
	}

	if err := writeTable(table, path); err != nil {
		return fmt.Errorf("Write: %w", err)
	}

	descPath := DescriptionPath(path)
	if err := os.WriteFile(descPath, []byte(description), 0o644); err != nil {
		return fmt.Errorf("Write: writing description %s: %w", descPath, err)
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("path", path).
		Int("rows", table.Len()).
		Msg("report saved")

	return nil
}

// WriteReport saves r under dir as <name>.csv and <name>.txt and returns the
// CSV path.
func (w *Writer) WriteReport(ctx context.Context, dir string, r *report.Report) (string, error) {
	path := filepath.Join(dir, r.Name+".csv")
	if err := w.Write(ctx, r.Table, path, r.Description); err != nil {
		return "", err
	}
	return path, nil
}

func (w *Writer) clearOnce(ctx context.Context, dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cleared {
		return nil
	}
	if err := ClearDir(dir); err != nil {
		return err
	}
	w.cleared = true

	log := logger.FromContext(ctx)
	log.Info().Str("dir", dir).Msg("output directory cleared")
	return nil
}

// ClearDir removes every regular file directly inside dir. Subdirectories and
// their contents are left alone. A missing dir is not an error.
func ClearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("ClearDir: reading %s: %w", dir, err)
	}

	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("ClearDir: removing %s: %w", p, err)
		}
	}
	return nil
}

// DescriptionPath maps a report path to its description file.
func DescriptionPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".txt"
}

func writeTable(table *report.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := table.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

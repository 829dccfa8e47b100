// Package report holds the tabular result of an analysis and its CSV encoding.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/big"
	"strconv"
)

// Table is an ordered result set. A cell is nil (NULL), string, int64 or float64.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Report is one persisted analysis: a table plus its human-readable description.
// Name is the file base name used in the output directory.
type Report struct {
	Name        string
	Description string
	Table       *Table
}

// NewTable creates an empty table with the given column names.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Append adds a row. It panics if the row width does not match the columns.
func (t *Table) Append(cells ...any) {
	if len(cells) != len(t.Columns) {
		panic(fmt.Sprintf("report: row has %d cells, table has %d columns", len(cells), len(t.Columns)))
	}
	t.Rows = append(t.Rows, cells)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// WriteCSV writes a header row followed by every row. There is no index column.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("WriteCSV: header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, cell := range row {
			record[j] = FormatCell(cell)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("WriteCSV: row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("WriteCSV: flush: %w", err)
	}
	return nil
}

// FormatCell renders a cell for CSV output: NULL as an empty field,
// integers in decimal and floats with two decimals.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case bool:
		return strconv.FormatBool(x)
	case *big.Rat:
		if x == nil {
			return ""
		}
		return x.FloatString(2)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

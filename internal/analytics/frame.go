package analytics

import (
	"bufio"
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// frame is a CSV file loaded into memory. Cells are raw strings; an empty
// field is NULL.
type frame struct {
	source  string
	index   map[string]int
	rows    [][]string
	numeric map[int]bool
}

// delimiters are the field separators recognized in a header line, in order
// of preference on a tie.
var delimiters = []rune{',', ';', '\t', '|'}

func readFrame(r io.Reader, source string) (*frame, error) {
	br := bufio.NewReader(r)
	first, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: reading header of %s: %w", ErrDataAccess, source, err)
	}

	cr := csv.NewReader(io.MultiReader(strings.NewReader(first), br))
	cr.Comma = sniffDelimiter(first)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s has no header row", ErrDataAccess, source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header of %s: %w", ErrDataAccess, source, err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	f := &frame{
		source:  source,
		index:   make(map[string]int, len(header)),
		numeric: make(map[int]bool),
	}
	for i, name := range header {
		if _, dup := f.index[name]; !dup {
			f.index[name] = i
		}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", ErrDataAccess, source, err)
		}
		f.rows = append(f.rows, rec)
	}

	return f, nil
}

// sniffDelimiter picks the candidate delimiter occurring most often outside
// quotes in the header line. Comma is the fallback.
func sniffDelimiter(header string) rune {
	counts := make(map[rune]int, len(delimiters))
	quoted := false
	for _, c := range header {
		if c == '"' {
			quoted = !quoted
			continue
		}
		if !quoted {
			counts[c]++
		}
	}

	best := delimiters[0]
	for _, d := range delimiters[1:] {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}

// columns resolves column names to indexes.
func (f *frame) columns(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		j, ok := f.index[name]
		if !ok {
			return nil, &MissingColumnError{Column: name, Source: f.source}
		}
		idx[i] = j
	}
	return idx, nil
}

// isNumeric reports whether every non-NULL value of the column parses as a
// number, the way a type-sniffing CSV reader would type it.
func (f *frame) isNumeric(col int) bool {
	if v, ok := f.numeric[col]; ok {
		return v
	}
	numeric, seen := true, false
	for _, row := range f.rows {
		v := row[col]
		if isNull(v) {
			continue
		}
		seen = true
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			numeric = false
			break
		}
	}
	f.numeric[col] = numeric && seen
	return f.numeric[col]
}

// compare orders two values of a column ascending with NULLs last.
func (f *frame) compare(col int, a, b string) int {
	switch {
	case isNull(a) && isNull(b):
		return 0
	case isNull(a):
		return 1
	case isNull(b):
		return -1
	}
	if f.isNumeric(col) {
		fa, _ := strconv.ParseFloat(a, 64)
		fb, _ := strconv.ParseFloat(b, 64)
		if c := cmp.Compare(fa, fb); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

func isNull(v string) bool {
	return v == ""
}

// cell converts a raw value to a table cell.
func cell(v string) any {
	if isNull(v) {
		return nil
	}
	return v
}

func pick(row []string, cols []int) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = row[c]
	}
	return out
}

package analytics

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/transaction-insights/internal/report"
	"github.com/dvloznov/transaction-insights/internal/storage"
)

// ObjectOpener opens gs:// objects for reading.
type ObjectOpener interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// LocalEngine evaluates the analyses in memory. Each call reads the whole
// source into a fresh frame that is dropped when the call returns.
type LocalEngine struct {
	objects ObjectOpener
}

// NewLocalEngine creates an in-memory engine. objects may be nil when only
// local paths are queried.
func NewLocalEngine(objects ObjectOpener) *LocalEngine {
	return &LocalEngine{objects: objects}
}

var _ Library = (*LocalEngine)(nil)

func (e *LocalEngine) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if storage.IsGCSURI(source) {
		if e.objects == nil {
			return nil, fmt.Errorf("%w: no object store configured for %s", ErrDataAccess, source)
		}
		rc, err := e.objects.Open(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s: %w", ErrDataAccess, source, err)
		}
		return rc, nil
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrDataAccess, source, err)
	}
	return f, nil
}

// prepare loads the source and resolves the named columns.
func (e *LocalEngine) prepare(ctx context.Context, op, source string, names ...string) (*frame, []int, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	rc, err := e.open(ctx, source)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rc.Close()

	f, err := readFrame(rc, source)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	cols, err := f.columns(names...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return f, cols, nil
}

func (e *LocalEngine) RowCount(ctx context.Context, source string) (int64, error) {
	f, _, err := e.prepare(ctx, "RowCount", source)
	if err != nil {
		return 0, err
	}
	return int64(len(f.rows)), nil
}

func (e *LocalEngine) TransactionsByMIDAndCountry(ctx context.Context, source string) (*report.Table, error) {
	f, cols, err := e.prepare(ctx, "TransactionsByMIDAndCountry", source, ColMID, ColCardCountry)
	if err != nil {
		return nil, err
	}

	g := f.groupBy(cols...)
	for _, row := range f.rows {
		if isNull(row[cols[0]]) {
			continue
		}
		g.add(row)
	}

	t := report.NewTable(ColMID, ColCardCountry, "total_rows")
	for _, grp := range limit(g.sorted(g.asc(0), countDesc, g.asc(1)), midCountryLimit) {
		t.Append(cell(grp.key[0]), cell(grp.key[1]), grp.count)
	}
	return t, nil
}

func (e *LocalEngine) ConversionByMIDAndCountry(ctx context.Context, source string) (*report.Table, error) {
	f, cols, err := e.prepare(ctx, "ConversionByMIDAndCountry", source, ColMID, ColCardCountry, ColStatus)
	if err != nil {
		return nil, err
	}

	g := f.groupBy(cols[0], cols[1])
	for _, row := range f.rows {
		if isNull(row[cols[0]]) {
			continue
		}
		g.add(row).tally[row[cols[2]]]++
	}

	t := report.NewTable(ColMID, ColCardCountry,
		"pending_count", "success_count", "declined_count", "total_rows", "conversion_percent")
	for _, grp := range limit(g.sorted(g.asc(0), countDesc, g.asc(1)), conversionLimit) {
		success := grp.tally[StatusSuccess]
		t.Append(
			cell(grp.key[0]),
			cell(grp.key[1]),
			grp.tally[StatusPending],
			success,
			grp.tally[StatusDeclined],
			grp.count,
			conversionPercent(success, grp.count),
		)
	}
	return t, nil
}

// conversionPercent is success*100/total rounded half away from zero to two
// places, or nil when total is zero.
func conversionPercent(success, total int64) any {
	if total == 0 {
		return nil
	}
	pct := decimal.NewFromInt(success).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(total), 2)
	return pct.InexactFloat64()
}

func (e *LocalEngine) TransactionCountByMIDWithTotal(ctx context.Context, source string) (*report.Table, error) {
	f, cols, err := e.prepare(ctx, "TransactionCountByMIDWithTotal", source, ColMID)
	if err != nil {
		return nil, err
	}

	g := f.groupBy(cols...)
	for _, row := range f.rows {
		g.add(row)
	}

	label := func(grp *group) string {
		if isNull(grp.key[0]) {
			return NullLabel
		}
		return grp.key[0]
	}
	t := report.NewTable("mid_label", "total_rows")
	groups := g.sorted(func(a, b *group) int { return strings.Compare(label(a), label(b)) })
	for _, grp := range groups {
		t.Append(label(grp), grp.count)
	}
	t.Append(RollupLabel, int64(len(f.rows)))

	return capRollup(t, midTotalLimit), nil
}

// capRollup truncates a roll-up table to n rows while keeping its last row,
// the roll-up, in place.
func capRollup(t *report.Table, n int) *report.Table {
	if t.Len() <= n || n < 1 {
		return t
	}
	rollup := t.Rows[t.Len()-1]
	t.Rows = append(t.Rows[:n-1:n-1], rollup)
	return t
}

func (e *LocalEngine) TransactionsByBankMIDCountry(ctx context.Context, source string) (*report.Table, error) {
	f, cols, err := e.prepare(ctx, "TransactionsByBankMIDCountry", source, ColMID, ColCardCountry, ColBankIssuer)
	if err != nil {
		return nil, err
	}

	g := f.groupBy(cols...)
	for _, row := range f.rows {
		if isNull(row[cols[0]]) {
			continue
		}
		g.add(row)
	}

	t := report.NewTable(ColMID, ColCardCountry, ColBankIssuer, "total_rows")
	for _, grp := range limit(g.sorted(g.asc(0), g.asc(1), countDesc, g.asc(2)), bankLimit) {
		t.Append(cell(grp.key[0]), cell(grp.key[1]), cell(grp.key[2]), grp.count)
	}
	return t, nil
}

func (e *LocalEngine) TransactionsByCCBin(ctx context.Context, source string) (*report.Table, error) {
	f, cols, err := e.prepare(ctx, "TransactionsByCCBin", source, ColCCBin, ColCardCountry, ColBankIssuer, ColMID)
	if err != nil {
		return nil, err
	}

	g := f.groupBy(cols[0]).annotate(cols[1:]...)
	for _, row := range f.rows {
		if isNull(row[cols[0]]) {
			continue
		}
		g.add(row)
	}

	t := report.NewTable(ColCCBin, "total_rows", ColCardCountry, ColBankIssuer, ColMID)
	for _, grp := range limit(g.sorted(countDesc, g.asc(0)), ccBinLimit) {
		t.Append(cell(grp.key[0]), grp.count, cell(grp.seen[0]), cell(grp.seen[1]), cell(grp.seen[2]))
	}
	return t, nil
}

// topBins ranks card bins by row count, busiest first, ties by bin.
func (e *LocalEngine) topBins(ctx context.Context, op, source string, n int) ([]*group, error) {
	f, cols, err := e.prepare(ctx, op, source, ColCCBin)
	if err != nil {
		return nil, err
	}

	g := f.groupBy(cols...)
	for _, row := range f.rows {
		if isNull(row[cols[0]]) {
			continue
		}
		g.add(row)
	}
	return limit(g.sorted(countDesc, g.asc(0)), n), nil
}

func (e *LocalEngine) TopCCBins(ctx context.Context, source string) (*report.Table, error) {
	groups, err := e.topBins(ctx, "TopCCBins", source, topBinsLimit)
	if err != nil {
		return nil, err
	}

	t := report.NewTable(ColCCBin, "total_rows")
	for _, grp := range groups {
		t.Append(grp.key[0], grp.count)
	}
	return t, nil
}

func (e *LocalEngine) TopCCBinKeys(ctx context.Context, source string, n int) ([]string, error) {
	groups, err := e.topBins(ctx, "TopCCBinKeys", source, n)
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(groups))
	for i, grp := range groups {
		keys[i] = grp.key[0]
	}
	return keys, nil
}

func (e *LocalEngine) ErrorsByTopCCBins(ctx context.Context, source string) (*report.Table, error) {
	return e.errorsByTopBins(ctx, "ErrorsByTopCCBins", source, errorBinsTop, false)
}

func (e *LocalEngine) BinErrorStatistics(ctx context.Context, source string) (*report.Table, error) {
	return e.errorsByTopBins(ctx, "BinErrorStatistics", source, binErrorStatsTop, true)
}

// errorsByTopBins computes the n busiest bins, then aggregates error reasons
// over the rows whose bin is in that set. Without any bin the result is an
// empty table, or ErrEmptyResult when requireBins is set.
func (e *LocalEngine) errorsByTopBins(ctx context.Context, op, source string, n int, requireBins bool) (*report.Table, error) {
	bins, err := e.TopCCBinKeys(ctx, source, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(bins) == 0 && requireBins {
		return nil, fmt.Errorf("%s: %w: no CC bins in %s", op, ErrEmptyResult, source)
	}
	return e.errorsForBins(ctx, op, source, bins)
}

func (e *LocalEngine) errorsForBins(ctx context.Context, op, source string, bins []string) (*report.Table, error) {
	f, cols, err := e.prepare(ctx, op, source, ColCCBin, ColErrorReason, ColCardCountry, ColBankIssuer, ColMID)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]struct{}, len(bins))
	for _, b := range bins {
		allowed[b] = struct{}{}
	}

	g := f.groupBy(cols[0], cols[1])
	seen := make(map[string][]string)
	for _, row := range f.rows {
		bin := row[cols[0]]
		if _, ok := allowed[bin]; !ok || isNull(row[cols[1]]) {
			continue
		}
		g.add(row)
		if _, ok := seen[bin]; !ok {
			seen[bin] = pick(row, cols[2:])
		}
	}

	t := report.NewTable(ColCCBin, ColErrorReason, "total_occurrences", ColCardCountry, ColBankIssuer, ColMID)
	for _, grp := range limit(g.sorted(g.asc(0), countDesc, g.asc(1)), binErrorsLimit) {
		s := seen[grp.key[0]]
		t.Append(grp.key[0], grp.key[1], grp.count, cell(s[0]), cell(s[1]), cell(s[2]))
	}
	return t, nil
}

func (e *LocalEngine) TopCustomersByErrors(ctx context.Context, source string) (*report.Table, error) {
	f, cols, err := e.prepare(ctx, "TopCustomersByErrors", source, ColCustomerMail, ColErrorReason)
	if err != nil {
		return nil, err
	}

	g := f.groupBy(cols[0])
	for _, row := range f.rows {
		if isNull(row[cols[0]]) || isNull(row[cols[1]]) {
			continue
		}
		g.add(row)
	}

	t := report.NewTable(ColCustomerMail, "error_count")
	for _, grp := range limit(g.sorted(countDesc, g.asc(0)), topCustomersLimit) {
		t.Append(grp.key[0], grp.count)
	}
	return t, nil
}

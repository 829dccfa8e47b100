package analytics

import (
	"context"
	"fmt"
	"math/big"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/transaction-insights/internal/report"
	"github.com/dvloznov/transaction-insights/internal/storage"
)

// externalTable is the name the CSV source is bound to in every query.
const externalTable = "transactions"

// WarehouseEngine runs the analyses as BigQuery SQL over a CSV object in Cloud
// Storage, registered per query as an external table with an auto-detected
// schema. Each call creates and closes its own client.
type WarehouseEngine struct {
	projectID string
	location  string
}

// NewWarehouseEngine creates a BigQuery-backed engine.
func NewWarehouseEngine(projectID, location string) *WarehouseEngine {
	return &WarehouseEngine{projectID: projectID, location: location}
}

var _ Library = (*WarehouseEngine)(nil)

// externalCSV describes a headed CSV object as a BigQuery external table.
func externalCSV(uri string) *bigquery.ExternalDataConfig {
	return &bigquery.ExternalDataConfig{
		SourceFormat: bigquery.CSV,
		SourceURIs:   []string{uri},
		AutoDetect:   true,
		Options: &bigquery.CSVOptions{
			SkipLeadingRows: 1,
		},
	}
}

// query runs sql against source and collects at most maxRows rows
// (all rows when maxRows is 0) under the given column names.
func (e *WarehouseEngine) query(
	ctx context.Context,
	op string,
	source string,
	sql string,
	columns []string,
	params []bigquery.QueryParameter,
	maxRows int,
) (*report.Table, error) {
	if !storage.IsGCSURI(source) {
		return nil, fmt.Errorf("%s: %w: warehouse engine needs a gs:// source, got %q", op, ErrDataAccess, source)
	}

	client, err := bigquery.NewClient(ctx, e.projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: bigquery client: %w", op, ErrDataAccess, err)
	}
	defer client.Close()

	q := client.Query(sql)
	q.Location = e.location
	q.TableDefinitions = map[string]bigquery.ExternalData{
		externalTable: externalCSV(source),
	}
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: query read: %w", op, ErrDataAccess, err)
	}

	t := report.NewTable(columns...)
	for maxRows == 0 || t.Len() < maxRows {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w: iter next: %w", op, ErrDataAccess, err)
		}
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%s: %w: got %d columns, want %d", op, ErrDataAccess, len(row), len(columns))
		}

		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = fromBigQuery(v)
		}
		t.Append(cells...)
	}

	return t, nil
}

// fromBigQuery converts a BigQuery value to a table cell.
func fromBigQuery(v bigquery.Value) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string, int64, float64, bool:
		return x
	case *big.Rat:
		if x == nil {
			return nil
		}
		f, _ := x.Float64()
		return f
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

func (e *WarehouseEngine) RowCount(ctx context.Context, source string) (int64, error) {
	t, err := e.query(ctx, "RowCount", source, sqlRowCount, []string{"row_count"}, nil, 1)
	if err != nil {
		return 0, err
	}
	if t.Len() == 0 {
		return 0, nil
	}
	n, _ := t.Rows[0][0].(int64)
	return n, nil
}

func (e *WarehouseEngine) TransactionsByMIDAndCountry(ctx context.Context, source string) (*report.Table, error) {
	return e.query(ctx, "TransactionsByMIDAndCountry", source, sqlTransactionsByMIDAndCountry,
		[]string{ColMID, ColCardCountry, "total_rows"}, nil, midCountryLimit)
}

func (e *WarehouseEngine) ConversionByMIDAndCountry(ctx context.Context, source string) (*report.Table, error) {
	return e.query(ctx, "ConversionByMIDAndCountry", source, sqlConversionByMIDAndCountry,
		[]string{ColMID, ColCardCountry, "pending_count", "success_count", "declined_count", "total_rows", "conversion_percent"},
		nil, conversionLimit)
}

func (e *WarehouseEngine) TransactionCountByMIDWithTotal(ctx context.Context, source string) (*report.Table, error) {
	t, err := e.query(ctx, "TransactionCountByMIDWithTotal", source, sqlTransactionCountByMIDWithTotal,
		[]string{"mid_label", "total_rows"}, nil, 0)
	if err != nil {
		return nil, err
	}
	return capRollup(t, midTotalLimit), nil
}

func (e *WarehouseEngine) TransactionsByBankMIDCountry(ctx context.Context, source string) (*report.Table, error) {
	return e.query(ctx, "TransactionsByBankMIDCountry", source, sqlTransactionsByBankMIDCountry,
		[]string{ColMID, ColCardCountry, ColBankIssuer, "total_rows"}, nil, bankLimit)
}

func (e *WarehouseEngine) TransactionsByCCBin(ctx context.Context, source string) (*report.Table, error) {
	return e.query(ctx, "TransactionsByCCBin", source, sqlTransactionsByCCBin,
		[]string{ColCCBin, "total_rows", ColCardCountry, ColBankIssuer, ColMID}, nil, ccBinLimit)
}

func (e *WarehouseEngine) TopCCBins(ctx context.Context, source string) (*report.Table, error) {
	return e.query(ctx, "TopCCBins", source, sqlTopCCBins,
		[]string{ColCCBin, "total_rows"}, nil, topBinsLimit)
}

func (e *WarehouseEngine) TopCCBinKeys(ctx context.Context, source string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	t, err := e.query(ctx, "TopCCBinKeys", source, sqlTopCCBins,
		[]string{ColCCBin, "total_rows"}, nil, n)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, t.Len())
	for _, row := range t.Rows {
		keys = append(keys, report.FormatCell(row[0]))
	}
	return keys, nil
}

func (e *WarehouseEngine) ErrorsByTopCCBins(ctx context.Context, source string) (*report.Table, error) {
	return e.errorsByTopBins(ctx, "ErrorsByTopCCBins", source, errorBinsTop, false)
}

func (e *WarehouseEngine) BinErrorStatistics(ctx context.Context, source string) (*report.Table, error) {
	return e.errorsByTopBins(ctx, "BinErrorStatistics", source, binErrorStatsTop, true)
}

// errorsByTopBins binds the computed bin list as the @bins array parameter.
// An empty list matches no rows unless requireBins turns it into ErrEmptyResult.
func (e *WarehouseEngine) errorsByTopBins(ctx context.Context, op, source string, n int, requireBins bool) (*report.Table, error) {
	bins, err := e.TopCCBinKeys(ctx, source, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(bins) == 0 && requireBins {
		return nil, fmt.Errorf("%s: %w: no CC bins in %s", op, ErrEmptyResult, source)
	}

	return e.query(ctx, op, source, sqlErrorsForBins,
		[]string{ColCCBin, ColErrorReason, "total_occurrences", ColCardCountry, ColBankIssuer, ColMID},
		binsParameter(bins), binErrorsLimit)
}

func binsParameter(bins []string) []bigquery.QueryParameter {
	return []bigquery.QueryParameter{
		{Name: "bins", Value: bins},
	}
}

func (e *WarehouseEngine) TopCustomersByErrors(ctx context.Context, source string) (*report.Table, error) {
	return e.query(ctx, "TopCustomersByErrors", source, sqlTopCustomersByErrors,
		[]string{ColCustomerMail, "error_count"}, nil, topCustomersLimit)
}

// Package analytics implements the fixed battery of aggregate queries run
// against a transaction report.
package analytics

import (
	"context"

	"github.com/dvloznov/transaction-insights/internal/report"
)

// Source column names, matched exactly against the CSV header.
const (
	ColMID          = "MID"
	ColCardCountry  = "Card Country"
	ColStatus       = "Status"
	ColBankIssuer   = "Bank Issuer"
	ColCCBin        = "CC bin"
	ColCustomerMail = "Customer Email"
	ColErrorReason  = "Error Unsafe Reason"
)

// Status values counted by the conversion report.
const (
	StatusPending  = "pending"
	StatusSuccess  = "success"
	StatusDeclined = "declined"
)

// RollupLabel labels the synthetic total row of TransactionCountByMIDWithTotal.
const RollupLabel = "TOTAL"

// NullLabel labels the group of rows whose MID is NULL in the roll-up report.
const NullLabel = "NULL"

// Row caps. Each threshold belongs to its own report.
const (
	midCountryLimit   = 25
	conversionLimit   = 25
	midTotalLimit     = 25
	bankLimit         = 25
	ccBinLimit        = 25
	topBinsLimit      = 20
	errorBinsTop      = 25
	binErrorStatsTop  = 20
	binErrorsLimit    = 25
	topCustomersLimit = 25
)

// Library is the set of analyses. Every method reads the source on its own and
// releases engine resources before returning.
type Library interface {
	// TransactionsByMIDAndCountry counts rows per MID and card country.
	TransactionsByMIDAndCountry(ctx context.Context, source string) (*report.Table, error)

	// ConversionByMIDAndCountry adds per-status counts and the success percentage.
	ConversionByMIDAndCountry(ctx context.Context, source string) (*report.Table, error)

	// TransactionCountByMIDWithTotal counts rows per MID plus a final roll-up row.
	TransactionCountByMIDWithTotal(ctx context.Context, source string) (*report.Table, error)

	// TransactionsByBankMIDCountry counts rows per MID, card country and issuing bank.
	TransactionsByBankMIDCountry(ctx context.Context, source string) (*report.Table, error)

	// TransactionsByCCBin counts rows per card bin with the first-seen country, bank and MID.
	TransactionsByCCBin(ctx context.Context, source string) (*report.Table, error)

	// TopCCBins lists the 20 busiest card bins.
	TopCCBins(ctx context.Context, source string) (*report.Table, error)

	// TopCCBinKeys returns the n busiest card bins, busiest first.
	TopCCBinKeys(ctx context.Context, source string, n int) ([]string, error)

	// ErrorsByTopCCBins counts error reasons within the 25 busiest card bins.
	// A source without card bins gives an empty table.
	ErrorsByTopCCBins(ctx context.Context, source string) (*report.Table, error)

	// BinErrorStatistics counts error reasons within the 20 busiest card bins.
	// A source without card bins is ErrEmptyResult.
	BinErrorStatistics(ctx context.Context, source string) (*report.Table, error)

	// TopCustomersByErrors ranks customer emails by failed attempts.
	TopCustomersByErrors(ctx context.Context, source string) (*report.Table, error)

	// RowCount returns the number of data rows in the source.
	RowCount(ctx context.Context, source string) (int64, error)
}

package analytics

import (
	"context"

	"github.com/dvloznov/transaction-insights/internal/report"
)

// Analysis binds a Library query to the report name and description it is saved under.
type Analysis struct {
	Name        string
	Description string
	Query       func(Library, context.Context, string) (*report.Table, error)
}

// Run executes the analysis against lib.
func (a Analysis) Run(ctx context.Context, lib Library, source string) (*report.Table, error) {
	return a.Query(lib, ctx, source)
}

var reportAnalyses = []Analysis{
	{
		Name:        "transactions_by_mid_and_country",
		Description: "Количество транзакций в разрезе MID и стран карт.",
		Query:       Library.TransactionsByMIDAndCountry,
	},
	{
		Name:        "conversion_by_mid_and_country",
		Description: "Конверсия платежей по MID и странам карт (success / pending / declined).",
		Query:       Library.ConversionByMIDAndCountry,
	},
	{
		Name:        "transactions_by_mid_total",
		Description: "Количество транзакций по каждому MID, включая итоговое значение.",
		Query:       Library.TransactionCountByMIDWithTotal,
	},
	{
		Name:        "transactions_by_bank_mid_country",
		Description: "Распределение транзакций по банкам в разрезе MID и стран карт.",
		Query:       Library.TransactionsByBankMIDCountry,
	},
	{
		Name:        "transactions_by_cc_bin",
		Description: "Количество транзакций по каждому CC BIN с привязкой к стране, банку и MID.",
		Query:       Library.TransactionsByCCBin,
	},
	{
		Name:        "top_20_cc_bins",
		Description: "ТОП-20 CC BIN по количеству транзакций.",
		Query:       Library.TopCCBins,
	},
	{
		Name:        "errors_by_top_25_cc_bins",
		Description: "Статистика ошибок по топ-25 CC BIN.",
		Query:       Library.ErrorsByTopCCBins,
	},
	{
		Name:        "top_25_customers_by_errors",
		Description: "Топ-25 клиентов по количеству транзакций с ошибками.",
		Query:       Library.TopCustomersByErrors,
	},
}

var adHocAnalyses = []Analysis{
	{
		Name:        "bin_error_statistics",
		Description: "Ошибки (Error Unsafe Reason) по ТОП-20 CC BIN.",
		Query:       Library.BinErrorStatistics,
	},
}

// Reports returns the analyses of a full run, in execution order.
func Reports() []Analysis {
	out := make([]Analysis, len(reportAnalyses))
	copy(out, reportAnalyses)
	return out
}

// All returns every analysis, including those only available on demand.
func All() []Analysis {
	return append(Reports(), adHocAnalyses...)
}

// Lookup finds an analysis by report name.
func Lookup(name string) (Analysis, bool) {
	for _, a := range All() {
		if a.Name == name {
			return a, true
		}
	}
	return Analysis{}, false
}

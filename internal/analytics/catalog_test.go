package analytics

import (
	"context"
	"testing"
)

func TestReports_Order(t *testing.T) {
	want := []string{
		"transactions_by_mid_and_country",
		"conversion_by_mid_and_country",
		"transactions_by_mid_total",
		"transactions_by_bank_mid_country",
		"transactions_by_cc_bin",
		"top_20_cc_bins",
		"errors_by_top_25_cc_bins",
		"top_25_customers_by_errors",
	}

	got := Reports()
	if len(got) != len(want) {
		t.Fatalf("Reports() returned %d analyses, want %d", len(got), len(want))
	}
	for i, a := range got {
		if a.Name != want[i] {
			t.Errorf("Reports()[%d].Name = %q, want %q", i, a.Name, want[i])
		}
		if a.Description == "" {
			t.Errorf("Reports()[%d] has no description", i)
		}
	}
}

func TestReports_ReturnsCopy(t *testing.T) {
	r := Reports()
	r[0].Name = "changed"
	if Reports()[0].Name != "transactions_by_mid_and_country" {
		t.Error("Reports() exposed the internal catalog")
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		wantOK bool
	}{
		{"top_20_cc_bins", true},
		{"bin_error_statistics", true},
		{"unknown_report", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := Lookup(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if ok && a.Name != tt.name {
				t.Errorf("Lookup(%q).Name = %q", tt.name, a.Name)
			}
		})
	}
}

func TestAnalysis_Run(t *testing.T) {
	src := writeCSV(t, "m1,DE,success,BankA,411111,a@x.io,")

	a, _ := Lookup("transactions_by_mid_total")
	tbl, err := a.Run(context.Background(), NewLocalEngine(nil), src)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	assertRows(t, tbl.Rows, [][]any{
		{"m1", int64(1)},
		{RollupLabel, int64(1)},
	})
}

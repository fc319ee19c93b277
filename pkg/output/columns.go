// Package output renders amortization schedules as tables, CSV, JSON and spreadsheets.
package output

import (
	"github.com/iwvelando/loan-amortizer/pkg/loans"
	"github.com/iwvelando/loan-amortizer/pkg/mathutil"
)

// Columns selects the optional column groups of a rendered schedule.
type Columns struct {
	ShowInsurance     bool `json:"showInsurance"`
	ShowExtraPayments bool `json:"showExtraPayments"`
}

// AllColumns shows every column group.
var AllColumns = Columns{ShowInsurance: true, ShowExtraPayments: true}

// ColumnsFor enables a column group when any row carries a non-zero value for it.
func ColumnsFor(schedule loans.Schedule) Columns {
	var cols Columns
	for _, row := range schedule.Rows {
		if !mathutil.IsZero(row.Insurance) {
			cols.ShowInsurance = true
		}
		if row.ExtraPayment > 0 {
			cols.ShowExtraPayments = true
		}
	}
	return cols
}

// Headers returns the column titles, led by the period label.
func Headers(periodLabel string, cols Columns) []string {
	headers := []string{periodLabel, "Initial Balance", "Payment"}
	if cols.ShowInsurance {
		headers = append(headers, "Fixed Insurance", "% of Balance", "% of Payment", "Total Insurance")
	}
	headers = append(headers, "Total Payment", "Interest", "Principal")
	if cols.ShowExtraPayments {
		headers = append(headers, "Extra Payment")
	}
	return append(headers, "Final Balance")
}

// amounts returns the monetary cells of a row in header order, without the period.
func amounts(row loans.AmortizationRow, cols Columns) []float64 {
	values := []float64{row.InitialBalance, row.Payment}
	if cols.ShowInsurance {
		b := row.InsuranceBreakdown
		values = append(values, b.Fixed, b.PercentOfBalance, b.PercentOfPayment, row.Insurance)
	}
	values = append(values, row.TotalPayment, row.Interest, row.Principal)
	if cols.ShowExtraPayments {
		values = append(values, row.ExtraPayment)
	}
	return append(values, row.FinalBalance)
}

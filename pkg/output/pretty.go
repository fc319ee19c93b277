package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/iwvelando/loan-amortizer/pkg/format"
	"github.com/iwvelando/loan-amortizer/pkg/loans"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, schedule loans.Schedule, cols Columns) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)

	headers := Headers(schedule.PeriodLabel, cols)
	separators := make([]string, len(headers))
	for i, header := range headers {
		separators[i] = strings.Repeat("_", len(header))
	}
	fmt.Fprintf(tw, "%s\t\n", strings.Join(headers, "\t| "))
	fmt.Fprintf(tw, "%s\t\n", strings.Join(separators, "\t| "))

	for _, row := range schedule.Rows {
		cells := []string{fmt.Sprintf("%d", row.Period)}
		for _, value := range amounts(row, cols) {
			cells = append(cells, format.Currency(value))
		}
		fmt.Fprintf(tw, "%s\t\n", strings.Join(cells, "\t| "))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write schedule table: %w", err)
	}

	totals := schedule.Totals()
	fmt.Fprintf(w, "\n--- Totals over %d %ss ---\n", totals.Periods, strings.ToLower(schedule.PeriodLabel))
	fmt.Fprintf(w, "Principal:      %s\n", format.Currency(totals.TotalPrincipal))
	fmt.Fprintf(w, "Interest:       %s\n", format.Currency(totals.TotalInterest))
	if cols.ShowInsurance {
		fmt.Fprintf(w, "Insurance:      %s\n", format.Currency(totals.TotalInsurance))
	}
	if cols.ShowExtraPayments {
		fmt.Fprintf(w, "Extra payments: %s\n", format.Currency(totals.TotalExtraPayments))
	}
	fmt.Fprintf(w, "Total paid:     %s\n", format.Currency(totals.TotalPaid))

	for _, warning := range schedule.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	return nil
}

package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/loan-amortizer/pkg/loans"
)

// Report is the JSON document describing a computed schedule.
type Report struct {
	Frequency   loans.PaymentFrequency  `json:"frequency"`
	PeriodLabel string                  `json:"periodLabel"`
	PaidOff     bool                    `json:"paidOff"`
	Columns     Columns                 `json:"columns"`
	Totals      loans.Totals            `json:"totals"`
	Rows        []loans.AmortizationRow `json:"rows"`
	Warnings    []string                `json:"warnings,omitempty"`
}

// NewReport bundles a schedule with its totals and column selection.
func NewReport(schedule loans.Schedule) Report {
	rows := schedule.Rows
	if rows == nil {
		rows = []loans.AmortizationRow{}
	}
	return Report{
		Frequency:   schedule.Frequency,
		PeriodLabel: schedule.PeriodLabel,
		PaidOff:     schedule.PaidOff(),
		Columns:     ColumnsFor(schedule),
		Totals:      schedule.Totals(),
		Rows:        rows,
		Warnings:    schedule.Warnings,
	}
}

// JSONFormat writes the schedule report as indented JSON.
func JSONFormat(w io.Writer, schedule loans.Schedule) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(NewReport(schedule)); err != nil {
		return fmt.Errorf("failed to encode schedule: %w", err)
	}
	return nil
}

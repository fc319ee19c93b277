// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/loan-amortizer/pkg/loans"
)

// FindRow finds the row for a period in a schedule's rows.
// Returns a pointer to the row if found, nil otherwise.
func FindRow(rows []loans.AmortizationRow, period int) *loans.AmortizationRow {
	for i := range rows {
		if rows[i].Period == period {
			return &rows[i]
		}
	}
	return nil
}

// FindExtraPayment finds an identified extra payment by id.
func FindExtraPayment(payments []loans.ExtraPayment, id string) *loans.ExtraPayment {
	for i := range payments {
		if payments[i].ID == id {
			return &payments[i]
		}
	}
	return nil
}

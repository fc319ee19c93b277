package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/loan-amortizer/pkg/format"
	"github.com/iwvelando/loan-amortizer/pkg/loans"
	"github.com/iwvelando/loan-amortizer/pkg/mathutil"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the spreadsheet export.
const (
	SummarySheet  = "Summary"
	ScheduleSheet = "Amortization Schedule"
)

// ExcelFormat writes a workbook with a summary sheet and the schedule sheet.
func ExcelFormat(w io.Writer, req loans.ScheduleRequest, schedule loans.Schedule, cols Columns) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if _, err := f.NewSheet(ScheduleSheet); err != nil {
		return fmt.Errorf("failed to create schedule sheet: %w", err)
	}

	totals := schedule.Totals()
	summary := [][]interface{}{
		{"Loan Amortization Summary"},
		{""},
		{"Loan Amount", req.Loan.Principal},
		{"Annual Interest Rate", format.Percent(req.Loan.AnnualRatePercent)},
		{fmt.Sprintf("Total %ss", schedule.PeriodLabel), req.Loan.TotalPeriods},
		{"Payment Frequency", string(schedule.Frequency)},
		{""},
		{"Total Interest Paid", mathutil.Round(totals.TotalInterest)},
		{"Total Insurance Paid", mathutil.Round(totals.TotalInsurance)},
		{"Total Extra Payments", mathutil.Round(totals.TotalExtraPayments)},
		{"Total Amount Paid", mathutil.Round(totals.TotalPaid)},
	}
	for i, line := range summary {
		if err := setRow(f, SummarySheet, i+1, line); err != nil {
			return err
		}
	}

	headers := Headers(schedule.PeriodLabel, cols)
	headerRow := make([]interface{}, len(headers))
	for i, header := range headers {
		headerRow[i] = header
	}
	if err := setRow(f, ScheduleSheet, 1, headerRow); err != nil {
		return err
	}
	for i, row := range schedule.Rows {
		values := amounts(row, cols)
		cells := make([]interface{}, 0, len(values)+1)
		cells = append(cells, row.Period)
		for _, value := range values {
			cells = append(cells, mathutil.Round(value))
		}
		if err := setRow(f, ScheduleSheet, i+2, cells); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

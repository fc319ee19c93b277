package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/loan-amortizer/pkg/constants"
	"github.com/iwvelando/loan-amortizer/pkg/loans"
	"github.com/shopspring/decimal"
)

// CsvFormat writes the schedule as comma-separated values with two decimals per amount.
func CsvFormat(w io.Writer, schedule loans.Schedule, cols Columns) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Headers(schedule.PeriodLabel, cols)); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range schedule.Rows {
		values := amounts(row, cols)
		record := make([]string, 0, len(values)+1)
		record = append(record, strconv.Itoa(row.Period))
		for _, value := range values {
			record = append(record, fixed(value))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for period %d: %w", row.Period, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// CsvString returns the CSV rendering of the schedule.
func CsvString(schedule loans.Schedule, cols Columns) (string, error) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, schedule, cols); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func fixed(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(constants.CurrencyPlaces)
}

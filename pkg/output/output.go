package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/loan-amortizer/pkg/constants"
	"github.com/iwvelando/loan-amortizer/pkg/loans"
)

// Write renders the schedule in the named output format.
func Write(w io.Writer, outputFormat string, req loans.ScheduleRequest, schedule loans.Schedule) error {
	cols := ColumnsFor(schedule)
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, schedule, cols)
	case constants.OutputFormatCSV:
		return CsvFormat(w, schedule, cols)
	case constants.OutputFormatJSON:
		return JSONFormat(w, schedule)
	case constants.OutputFormatExcel:
		return ExcelFormat(w, req, schedule, cols)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// ContentType returns the MIME type of an output format.
func ContentType(outputFormat string) string {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return "text/csv; charset=utf-8"
	case constants.OutputFormatJSON:
		return "application/json"
	case constants.OutputFormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// FileName returns the download name of an export.
func FileName(outputFormat string) string {
	extension := outputFormat
	if outputFormat == constants.OutputFormatPretty {
		extension = "txt"
	}
	return "amortization." + extension
}

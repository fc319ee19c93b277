package loans

import (
	"strings"

	"github.com/iwvelando/loan-amortizer/pkg/constants"
)

// PaymentFrequency selects how often a payment is due.
type PaymentFrequency string

// Supported payment frequencies.
const (
	Monthly  PaymentFrequency = "monthly"
	BiWeekly PaymentFrequency = "biweekly"
	Weekly   PaymentFrequency = "weekly"
)

// PeriodsPerYear returns the number of payment periods in a year. Unknown
// frequencies resolve as monthly.
func PeriodsPerYear(frequency PaymentFrequency) int {
	switch frequency {
	case Weekly:
		return constants.WeeksPerYear
	case BiWeekly:
		return constants.BiWeeksPerYear
	default:
		return constants.MonthsPerYear
	}
}

// PeriodLabel returns the column label used for a period of the given frequency.
func PeriodLabel(frequency PaymentFrequency) string {
	switch frequency {
	case Weekly:
		return "Week"
	case BiWeekly:
		return "Period"
	default:
		return "Month"
	}
}

// Valid reports whether the frequency is one of the supported values.
func (f PaymentFrequency) Valid() bool {
	switch f {
	case Monthly, BiWeekly, Weekly:
		return true
	}
	return false
}

// ParsePaymentFrequency converts user input into a PaymentFrequency. An empty
// value defaults to monthly.
func ParsePaymentFrequency(value string) (PaymentFrequency, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer("-", "", "_", "", " ", "").Replace(normalized)
	switch normalized {
	case "", "monthly", "month":
		return Monthly, nil
	case "biweekly", "fortnightly":
		return BiWeekly, nil
	case "weekly", "week":
		return Weekly, nil
	}
	return "", configError("frequency", value, "must be one of monthly, biweekly, weekly")
}

// PeriodRate converts an annual percentage rate into the rate applied each period.
func PeriodRate(annualRatePercent float64, frequency PaymentFrequency) float64 {
	return annualRatePercent / constants.PercentageMultiplier / float64(PeriodsPerYear(frequency))
}

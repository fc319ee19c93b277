// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"sort"

	"github.com/iwvelando/loan-amortizer/pkg/loans"
	"github.com/iwvelando/loan-amortizer/pkg/mathutil"
)

// ValidateExtraPaymentPeriods reports periods that receive more than one
// extra payment. They are summed, which is usually but not always intended.
func ValidateExtraPaymentPeriods(payments []loans.PeriodPayment) []string {
	counts := make(map[int]int)
	for _, payment := range payments {
		counts[payment.Period]++
	}

	periods := make([]int, 0, len(counts))
	for period, count := range counts {
		if count > 1 {
			periods = append(periods, period)
		}
	}
	sort.Ints(periods)

	var warnings []string
	for _, period := range periods {
		warnings = append(warnings, fmt.Sprintf("Period %d has %d extra payments; they will be combined",
			period, counts[period]))
	}
	return warnings
}

// ValidateExtraPaymentTotal warns when the extra payments alone exceed the
// amount borrowed, so the schedule will end early.
func ValidateExtraPaymentTotal(payments []loans.PeriodPayment, principal float64) string {
	var total float64
	for _, payment := range payments {
		total += payment.Amount
	}
	if total > principal {
		return fmt.Sprintf("Extra payments total %.2f which exceeds the principal of %.2f - the loan will be paid off early",
			total, principal)
	}
	return ""
}

// ValidateInsurance warns when insurance is enabled but charges nothing.
func ValidateInsurance(config loans.InsuranceConfig) string {
	if !config.Enabled {
		return ""
	}
	if mathutil.IsZero(config.FixedAmountPerPeriod) && mathutil.IsZero(config.PercentOfBalance) &&
		mathutil.IsZero(config.PercentOfPayment) {
		return "Insurance is enabled but every component is zero"
	}
	return ""
}

// ValidateFirstPayment checks a first payment override against the loan.
func ValidateFirstPayment(override *loans.FirstPaymentOverride, principal float64) []string {
	if override == nil {
		return nil
	}

	var warnings []string
	if mathutil.IsZero(override.Principal) {
		warnings = append(warnings, "First payment override has zero principal - the balance will not decrease in period 1")
	}
	if override.Principal > principal {
		warnings = append(warnings, fmt.Sprintf("First payment override principal %.2f exceeds the loan principal %.2f",
			override.Principal, principal))
	}
	return warnings
}

// ConfigValidator collects non-fatal warnings about a schedule request.
type ConfigValidator struct {
	Request loans.ScheduleRequest
}

// ValidateAll validates the entire request and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	req := cv.Request
	warnings := ValidateExtraPaymentPeriods(req.ExtraPayments)

	if warning := ValidateExtraPaymentTotal(req.ExtraPayments, req.Loan.Principal); warning != "" {
		warnings = append(warnings, warning)
	}
	if warning := ValidateInsurance(req.Insurance); warning != "" {
		warnings = append(warnings, warning)
	}
	warnings = append(warnings, ValidateFirstPayment(req.FirstPayment, req.Loan.Principal)...)

	if len(req.ExtraPayments) > 0 && req.Strategy == loans.ReduceQuota && req.FirstPayment != nil {
		warnings = append(warnings, "Payments are recomputed from period 2 onwards; the first payment override only affects period 1")
	}

	return warnings
}

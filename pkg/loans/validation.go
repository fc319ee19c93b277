package loans

import (
	"fmt"

	"github.com/iwvelando/loan-amortizer/pkg/constants"
	"github.com/iwvelando/loan-amortizer/pkg/mathutil"
)

// ValidateLoanConfig rejects loans the generator cannot amortize. maxPeriods
// bounds the term; values below one use constants.DefaultMaxPeriods.
func ValidateLoanConfig(loan LoanConfig, maxPeriods int) error {
	if maxPeriods < 1 {
		maxPeriods = constants.DefaultMaxPeriods
	}
	if !mathutil.IsFinite(loan.Principal) || loan.Principal <= 0 {
		return configError("principal", loan.Principal, "must be greater than 0")
	}
	if !mathutil.IsFinite(loan.AnnualRatePercent) || loan.AnnualRatePercent < 0 {
		return configError("annualRatePercent", loan.AnnualRatePercent, "must be 0 or greater")
	}
	if loan.TotalPeriods < 1 {
		return configError("totalPeriods", loan.TotalPeriods, "must be at least 1")
	}
	if loan.TotalPeriods > maxPeriods {
		return configError("totalPeriods", loan.TotalPeriods, fmt.Sprintf("must not exceed %d", maxPeriods))
	}
	if !loan.Frequency.Valid() {
		return configError("frequency", loan.Frequency, "must be one of monthly, biweekly, weekly")
	}
	if _, ok := openingPayment(loan); !ok {
		return configError("annualRatePercent", loan.AnnualRatePercent, "is too large to compute a finite payment")
	}
	return nil
}

// openingPayment returns the period 1 installment and whether it and its
// interest are finite.
func openingPayment(loan LoanConfig) (float64, bool) {
	rate := PeriodRate(loan.AnnualRatePercent, loan.Frequency)
	payment := CalculatePayment(loan.Principal, rate, loan.TotalPeriods)
	interest := CalculateInterestPayment(loan.Principal, rate)
	return payment, mathutil.IsFinite(payment) && mathutil.IsFinite(interest)
}

// ValidateInsuranceConfig rejects non-finite components and components that
// overflow on the opening balance. Negative values are accepted as-is.
func ValidateInsuranceConfig(cfg InsuranceConfig, loan LoanConfig) error {
	if !cfg.Enabled {
		return nil
	}
	components := []struct {
		field string
		value float64
	}{
		{"insurance.fixedAmountPerPeriod", cfg.FixedAmountPerPeriod},
		{"insurance.percentOfBalance", cfg.PercentOfBalance},
		{"insurance.percentOfPayment", cfg.PercentOfPayment},
	}
	for _, c := range components {
		if !mathutil.IsFinite(c.value) {
			return configError(c.field, c.value, "must be a finite number")
		}
	}

	payment, _ := openingPayment(loan)
	if total := CalculateInsurance(loan.Principal, payment, cfg).Total; !mathutil.IsFinite(total) {
		return configError("insurance", total, "is too large to compute a finite premium")
	}
	return nil
}

// ValidateExtraPayment rejects extra payments that are not positive or fall
// outside [1, totalPeriods].
func ValidateExtraPayment(period int, amount float64, totalPeriods int) error {
	if !mathutil.IsFinite(amount) || amount <= 0 {
		return extraPaymentError("amount", amount, "must be greater than 0")
	}
	if period < 1 || period > totalPeriods {
		return extraPaymentError("period", period, fmt.Sprintf("must be between 1 and %d", totalPeriods))
	}
	return nil
}

// ValidateScheduleRequest validates every part of a request before any
// computation starts.
func ValidateScheduleRequest(req ScheduleRequest, maxPeriods int) error {
	if err := ValidateLoanConfig(req.Loan, maxPeriods); err != nil {
		return err
	}
	for _, payment := range req.ExtraPayments {
		if err := ValidateExtraPayment(payment.Period, payment.Amount, req.Loan.TotalPeriods); err != nil {
			return err
		}
	}
	if err := ValidateInsuranceConfig(req.Insurance, req.Loan); err != nil {
		return err
	}
	if !req.Strategy.Valid() {
		return configError("strategy", req.Strategy, "must be one of reduce_quota, reduce_term, auto")
	}
	if override := req.FirstPayment; override != nil {
		if !mathutil.IsFinite(override.Principal) || override.Principal < 0 {
			return configError("firstPayment.principal", override.Principal, "must be 0 or greater")
		}
		if !mathutil.IsFinite(override.Interest) || override.Interest < 0 {
			return configError("firstPayment.interest", override.Interest, "must be 0 or greater")
		}
		if !mathutil.IsFinite(override.Insurance) || override.Insurance < 0 {
			return configError("firstPayment.insurance", override.Insurance, "must be 0 or greater")
		}
	}
	return nil
}

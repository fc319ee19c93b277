// Package loans computes period-by-period loan amortization schedules.
package loans

import "math"

// CalculatePayment calculates the annuity payment that repays balance over
// remainingPeriods at a constant periodRate. A zero rate splits the balance
// evenly.
func CalculatePayment(balance, periodRate float64, remainingPeriods int) float64 {
	if remainingPeriods < 1 {
		remainingPeriods = 1
	}
	if periodRate == 0 {
		return balance / float64(remainingPeriods)
	}
	return balance * periodRate / (1 - math.Pow(1+periodRate, -float64(remainingPeriods)))
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(balance, periodRate float64) float64 {
	return balance * periodRate
}

// CalculateExtraPayment sums the extra payments scheduled for a period.
func CalculateExtraPayment(payments []PeriodPayment, period int) float64 {
	amount := 0.0
	for _, payment := range payments {
		if payment.Period == period {
			amount += payment.Amount
		}
	}
	return amount
}

package loans

import (
	"math"
	"strings"

	"github.com/iwvelando/loan-amortizer/pkg/mathutil"
)

// ExtraPaymentStrategy selects what an extra capital payment shrinks.
type ExtraPaymentStrategy string

// Supported extra payment strategies.
const (
	// ReduceQuota keeps the remaining term and lowers the periodic payment.
	ReduceQuota ExtraPaymentStrategy = "reduce_quota"
	// ReduceTerm keeps the periodic payment and shortens the remaining term.
	ReduceTerm ExtraPaymentStrategy = "reduce_term"
	// Auto picks ReduceTerm for extra payments smaller than the installment
	// and ReduceQuota otherwise.
	Auto ExtraPaymentStrategy = "auto"
)

// Valid reports whether the strategy is one of the supported values.
func (s ExtraPaymentStrategy) Valid() bool {
	switch s {
	case ReduceQuota, ReduceTerm, Auto:
		return true
	}
	return false
}

// ParseExtraPaymentStrategy converts user input into an ExtraPaymentStrategy.
// An empty value defaults to Auto.
func ParseExtraPaymentStrategy(value string) (ExtraPaymentStrategy, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	switch normalized {
	case "", "auto", "automatic":
		return Auto, nil
	case "reduce_quota", "reduce_payment", "quota", "payment":
		return ReduceQuota, nil
	case "reduce_term", "term":
		return ReduceTerm, nil
	}
	return "", configError("strategy", value, "must be one of reduce_quota, reduce_term, auto")
}

// ResolveStrategy returns the strategy that applies to one extra payment.
// Auto becomes ReduceTerm when the extra payment is smaller than the
// scheduled payment and ReduceQuota otherwise.
func ResolveStrategy(strategy ExtraPaymentStrategy, currentPayment, extraPayment float64) ExtraPaymentStrategy {
	switch strategy {
	case ReduceTerm, ReduceQuota:
		return strategy
	default:
		if extraPayment < currentPayment {
			return ReduceTerm
		}
		return ReduceQuota
	}
}

// RemainingPeriodsAfterExtra returns the number of periods left to amortize
// balance once an extra payment has been applied, starting with the next
// period. remaining is the count the schedule would otherwise continue with.
// pinnedPayment is the installment the loan would have with no extra
// payments; ReduceTerm amortizes the lower balance at that payment.
// currentPayment only decides which strategy Auto resolves to.
// The second return value is true when the count collapsed below one and had
// to be clamped.
func RemainingPeriodsAfterExtra(strategy ExtraPaymentStrategy, balance, periodRate, pinnedPayment, currentPayment, extraPayment float64, remaining int) (int, bool) {
	if ResolveStrategy(strategy, currentPayment, extraPayment) == ReduceQuota {
		return remaining, false
	}

	periods, ok := periodsAtPayment(balance, periodRate, pinnedPayment)
	if !ok {
		return remaining, false
	}
	if periods < 1 {
		return 1, balance > 0
	}
	if periods > remaining && remaining > 0 {
		return remaining, false
	}
	return periods, false
}

// periodsAtPayment counts the periods needed to repay balance with a fixed
// payment. ok is false when the payment does not cover the interest.
func periodsAtPayment(balance, periodRate, payment float64) (int, bool) {
	if payment <= 0 {
		return 0, false
	}
	if periodRate == 0 {
		return mathutil.CeilPeriods(balance / payment), true
	}

	ratio := 1 - balance*periodRate/payment
	if ratio <= 0 {
		return 0, false
	}
	periods := -math.Log(ratio) / math.Log(1+periodRate)
	if !mathutil.IsFinite(periods) {
		return 0, false
	}
	return mathutil.CeilPeriods(periods), true
}

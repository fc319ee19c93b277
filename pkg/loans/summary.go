package loans

import "github.com/shopspring/decimal"

// Totals aggregates a schedule the way exports summarize it.
type Totals struct {
	Periods            int     `json:"periods"`
	TotalPrincipal     float64 `json:"totalPrincipal"`
	TotalInterest      float64 `json:"totalInterest"`
	TotalInsurance     float64 `json:"totalInsurance"`
	TotalExtraPayments float64 `json:"totalExtraPayments"`
	TotalPaid          float64 `json:"totalPaid"`
}

// Totals sums the schedule rows. TotalPaid is the sum of every period's total
// payment plus its extra payment.
func (s Schedule) Totals() Totals {
	var principal, interest, insurance, extra, paid decimal.Decimal
	for _, row := range s.Rows {
		principal = principal.Add(decimal.NewFromFloat(row.Principal))
		interest = interest.Add(decimal.NewFromFloat(row.Interest))
		insurance = insurance.Add(decimal.NewFromFloat(row.Insurance))
		extra = extra.Add(decimal.NewFromFloat(row.ExtraPayment))
		paid = paid.Add(decimal.NewFromFloat(row.TotalPayment)).Add(decimal.NewFromFloat(row.ExtraPayment))
	}
	return Totals{
		Periods:            len(s.Rows),
		TotalPrincipal:     principal.InexactFloat64(),
		TotalInterest:      interest.InexactFloat64(),
		TotalInsurance:     insurance.InexactFloat64(),
		TotalExtraPayments: extra.InexactFloat64(),
		TotalPaid:          paid.InexactFloat64(),
	}
}

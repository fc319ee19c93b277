package loans

import "github.com/iwvelando/loan-amortizer/pkg/mathutil"

// InsuranceConfig describes the insurance premium charged every period.
type InsuranceConfig struct {
	Enabled              bool    `json:"enabled"`
	FixedAmountPerPeriod float64 `json:"fixedAmountPerPeriod"`
	PercentOfBalance     float64 `json:"percentOfBalance"`
	PercentOfPayment     float64 `json:"percentOfPayment"`
}

// InsuranceBreakdown itemizes the insurance charged for one period.
type InsuranceBreakdown struct {
	Fixed            float64 `json:"fixed"`
	PercentOfBalance float64 `json:"percentOfBalance"`
	PercentOfPayment float64 `json:"percentOfPayment"`
	Total            float64 `json:"total"`
}

// CalculateInsurance computes the premium for a period from the opening
// balance and the scheduled payment. Disabled insurance costs nothing;
// negative configuration values are applied as given.
func CalculateInsurance(balance, payment float64, config InsuranceConfig) InsuranceBreakdown {
	if !config.Enabled {
		return InsuranceBreakdown{}
	}

	breakdown := InsuranceBreakdown{
		Fixed:            config.FixedAmountPerPeriod,
		PercentOfBalance: mathutil.ApplyPercentage(balance, config.PercentOfBalance),
		PercentOfPayment: mathutil.ApplyPercentage(payment, config.PercentOfPayment),
	}
	breakdown.Total = breakdown.Fixed + breakdown.PercentOfBalance + breakdown.PercentOfPayment
	return breakdown
}

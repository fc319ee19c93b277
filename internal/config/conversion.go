package config

import (
	"fmt"

	"github.com/iwvelando/loan-amortizer/pkg/loans"
	"github.com/iwvelando/loan-amortizer/pkg/validation"
)

// ToScheduleRequest converts the configuration into the request the schedule
// generator consumes. Unknown frequency or strategy names are rejected here.
func (c *Configuration) ToScheduleRequest() (loans.ScheduleRequest, error) {
	frequency, err := loans.ParsePaymentFrequency(c.Loan.Frequency)
	if err != nil {
		return loans.ScheduleRequest{}, fmt.Errorf("loan.frequency: %w", err)
	}
	strategy, err := loans.ParseExtraPaymentStrategy(c.Strategy)
	if err != nil {
		return loans.ScheduleRequest{}, fmt.Errorf("strategy: %w", err)
	}

	req := loans.ScheduleRequest{
		Loan: loans.LoanConfig{
			Principal:         c.Loan.Principal,
			AnnualRatePercent: c.Loan.AnnualRatePercent,
			TotalPeriods:      c.Loan.TotalPeriods,
			Frequency:         frequency,
		},
		Insurance: loans.InsuranceConfig{
			Enabled:              c.Insurance.Enabled,
			FixedAmountPerPeriod: c.Insurance.FixedAmountPerPeriod,
			PercentOfBalance:     c.Insurance.PercentOfBalance,
			PercentOfPayment:     c.Insurance.PercentOfPayment,
		},
		Strategy: strategy,
	}

	for _, payment := range c.ExtraPayments {
		req.ExtraPayments = append(req.ExtraPayments, loans.PeriodPayment{
			Period: payment.Period,
			Amount: payment.Amount,
		})
	}

	if c.FirstPayment != nil {
		req.FirstPayment = &loans.FirstPaymentOverride{
			Principal: c.FirstPayment.Principal,
			Interest:  c.FirstPayment.Interest,
			Insurance: c.FirstPayment.Insurance,
		}
	}

	return req, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Hard errors surface from ToScheduleRequest and the
// schedule generator.
func (c *Configuration) ValidateConfiguration() []string {
	req, err := c.ToScheduleRequest()
	if err != nil {
		return nil
	}

	validator := &validation.ConfigValidator{Request: req}
	return validator.ValidateAll()
}

package loans

import (
	"fmt"

	"github.com/iwvelando/loan-amortizer/pkg/constants"
	"github.com/iwvelando/loan-amortizer/pkg/mathutil"
	"go.uber.org/zap"
)

// LoanConfig holds the loan parameters for one calculation run.
type LoanConfig struct {
	Principal         float64          `json:"principal"`
	AnnualRatePercent float64          `json:"annualRatePercent"`
	TotalPeriods      int              `json:"totalPeriods"`
	Frequency         PaymentFrequency `json:"frequency"`
}

// PeriodPayment is an extra capital payment applied in a given period.
type PeriodPayment struct {
	Period int     `json:"period"`
	Amount float64 `json:"amount"`
}

// FirstPaymentOverride replaces the computed breakdown of the first period.
type FirstPaymentOverride struct {
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Insurance float64 `json:"insurance"`
}

// ScheduleRequest bundles every input of a schedule calculation.
type ScheduleRequest struct {
	Loan          LoanConfig            `json:"loan"`
	ExtraPayments []PeriodPayment       `json:"extraPayments,omitempty"`
	Insurance     InsuranceConfig       `json:"insurance"`
	Strategy      ExtraPaymentStrategy  `json:"strategy"`
	FirstPayment  *FirstPaymentOverride `json:"firstPayment,omitempty"`
}

// withDefaults fills the selectors left empty by callers building a request
// in code.
func (req ScheduleRequest) withDefaults() ScheduleRequest {
	if req.Loan.Frequency == "" {
		req.Loan.Frequency = Monthly
	}
	if req.Strategy == "" {
		req.Strategy = Auto
	}
	return req
}

// AmortizationRow holds the values for a given period.
type AmortizationRow struct {
	Period             int                `json:"period"`
	InitialBalance     float64            `json:"initialBalance"`
	Payment            float64            `json:"payment"`
	Insurance          float64            `json:"insurance"`
	InsuranceBreakdown InsuranceBreakdown `json:"insuranceBreakdown"`
	TotalPayment       float64            `json:"totalPayment"`
	Interest           float64            `json:"interest"`
	Principal          float64            `json:"principal"`
	ExtraPayment       float64            `json:"extraPayment"`
	FinalBalance       float64            `json:"finalBalance"`
}

// Schedule is the ordered list of periods produced for one request.
type Schedule struct {
	Frequency   PaymentFrequency  `json:"frequency"`
	PeriodLabel string            `json:"periodLabel"`
	Rows        []AmortizationRow `json:"rows"`
	Warnings    []string          `json:"warnings,omitempty"`
}

// FinalBalance returns the closing balance of the last period.
func (s Schedule) FinalBalance() float64 {
	if len(s.Rows) == 0 {
		return 0
	}
	return s.Rows[len(s.Rows)-1].FinalBalance
}

// PaidOff reports whether the schedule ends with a zero balance.
func (s Schedule) PaidOff() bool {
	return len(s.Rows) > 0 && s.FinalBalance() == 0
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger     *zap.Logger
	maxPeriods int
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger, maxPeriods: constants.DefaultMaxPeriods}
}

// SetMaxPeriods changes the longest schedule the generator accepts. Values
// below one restore the default.
func (g *AmortizationScheduleGenerator) SetMaxPeriods(maxPeriods int) {
	if maxPeriods < 1 {
		maxPeriods = constants.DefaultMaxPeriods
	}
	g.maxPeriods = maxPeriods
}

// MaxPeriods returns the longest schedule the generator accepts.
func (g *AmortizationScheduleGenerator) MaxPeriods() int {
	return g.maxPeriods
}

// GenerateSchedule validates the request and computes its complete
// amortization schedule. Nothing is computed when validation fails.
func (g *AmortizationScheduleGenerator) GenerateSchedule(req ScheduleRequest) (Schedule, error) {
	req = req.withDefaults()
	if err := ValidateScheduleRequest(req, g.maxPeriods); err != nil {
		return Schedule{}, err
	}
	return g.generate(req), nil
}

func (g *AmortizationScheduleGenerator) generate(req ScheduleRequest) Schedule {
	loan := req.Loan
	schedule := Schedule{
		Frequency:   loan.Frequency,
		PeriodLabel: PeriodLabel(loan.Frequency),
		Rows:        make([]AmortizationRow, 0, loan.TotalPeriods),
	}

	periodRate := PeriodRate(loan.AnnualRatePercent, loan.Frequency)
	balance := loan.Principal
	remaining := loan.TotalPeriods
	// ReduceTerm keeps the installment the loan started with.
	pinnedPayment := CalculatePayment(loan.Principal, periodRate, loan.TotalPeriods)

	for period := 1; period <= loan.TotalPeriods && balance > 0; period++ {
		payment := CalculatePayment(balance, periodRate, remaining)
		interest := CalculateInterestPayment(balance, periodRate)
		principal := payment - interest

		var insurance InsuranceBreakdown
		if period == 1 && req.FirstPayment != nil {
			principal = req.FirstPayment.Principal
			interest = req.FirstPayment.Interest
			payment = principal + interest
			insurance = InsuranceBreakdown{Total: req.FirstPayment.Insurance}
			g.logger.Debug(fmt.Sprintf("period 1: using first payment override %.2f principal, %.2f interest",
				principal, interest),
				zap.String("op", "loans.GenerateSchedule"),
			)
		} else {
			insurance = CalculateInsurance(balance, payment, req.Insurance)
		}

		extraPayment := CalculateExtraPayment(req.ExtraPayments, period)
		finalBalance := balance - principal - extraPayment
		if mathutil.Round(finalBalance) <= 0 {
			// Also absorbs the sub-cent residue left by the annuity formula.
			finalBalance = 0
		}

		schedule.Rows = append(schedule.Rows, AmortizationRow{
			Period:             period,
			InitialBalance:     balance,
			Payment:            payment,
			Insurance:          insurance.Total,
			InsuranceBreakdown: insurance,
			TotalPayment:       payment + insurance.Total,
			Interest:           interest,
			Principal:          principal,
			ExtraPayment:       extraPayment,
			FinalBalance:       finalBalance,
		})

		remaining--
		if extraPayment > 0 && finalBalance > 0 {
			applied := ResolveStrategy(req.Strategy, payment, extraPayment)
			next, clamped := RemainingPeriodsAfterExtra(applied, finalBalance, periodRate, pinnedPayment, payment, extraPayment, remaining)
			g.logger.Debug(fmt.Sprintf("period %d: applied extra payment %.2f with strategy %s, %d periods remain",
				period, extraPayment, applied, next),
				zap.String("op", "loans.GenerateSchedule"),
			)
			if clamped {
				schedule.Warnings = append(schedule.Warnings,
					fmt.Sprintf("period %d: remaining term collapsed, balance %.2f is due in full next period",
						period, finalBalance))
			}
			remaining = next
		}

		balance = finalBalance
	}

	if balance > 0 {
		g.logger.Debug(fmt.Sprintf("schedule ended after %d periods with outstanding balance %.2f",
			len(schedule.Rows), balance),
			zap.String("op", "loans.GenerateSchedule"),
		)
		schedule.Warnings = append(schedule.Warnings,
			fmt.Sprintf("schedule ended after %d periods with outstanding balance %.2f", len(schedule.Rows), balance))
	}

	return schedule
}

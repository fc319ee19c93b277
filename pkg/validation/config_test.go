package validation

import (
	"strings"
	"testing"

	"github.com/iwvelando/loan-amortizer/pkg/loans"
)

func TestValidateExtraPaymentPeriods(t *testing.T) {
	payments := []loans.PeriodPayment{
		{Period: 7, Amount: 100},
		{Period: 3, Amount: 100},
		{Period: 7, Amount: 50},
		{Period: 3, Amount: 10},
		{Period: 3, Amount: 20},
		{Period: 5, Amount: 20},
	}

	warnings := ValidateExtraPaymentPeriods(payments)
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "Period 3 has 3 extra payments") {
		t.Errorf("unexpected first warning: %s", warnings[0])
	}
	if !strings.Contains(warnings[1], "Period 7 has 2 extra payments") {
		t.Errorf("unexpected second warning: %s", warnings[1])
	}

	if warnings := ValidateExtraPaymentPeriods(nil); len(warnings) != 0 {
		t.Errorf("expected no warnings for no payments, got %v", warnings)
	}
}

func TestValidateExtraPaymentTotal(t *testing.T) {
	payments := []loans.PeriodPayment{{Period: 1, Amount: 600}, {Period: 2, Amount: 600}}

	if warning := ValidateExtraPaymentTotal(payments, 1000); warning == "" {
		t.Error("expected warning when extras exceed principal")
	}
	if warning := ValidateExtraPaymentTotal(payments, 1200); warning != "" {
		t.Errorf("unexpected warning: %s", warning)
	}
}

func TestValidateInsurance(t *testing.T) {
	tests := []struct {
		name       string
		config     loans.InsuranceConfig
		expectWarn bool
	}{
		{"Disabled", loans.InsuranceConfig{}, false},
		{"Enabled with fixed amount", loans.InsuranceConfig{Enabled: true, FixedAmountPerPeriod: 5}, false},
		{"Enabled with percentage", loans.InsuranceConfig{Enabled: true, PercentOfPayment: 0.5}, false},
		{"Enabled but empty", loans.InsuranceConfig{Enabled: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidateInsurance(tt.config)
			if (warning != "") != tt.expectWarn {
				t.Errorf("ValidateInsurance() = %q, expectWarn %v", warning, tt.expectWarn)
			}
		})
	}
}

func TestValidateFirstPayment(t *testing.T) {
	if warnings := ValidateFirstPayment(nil, 1000); warnings != nil {
		t.Errorf("expected nil for no override, got %v", warnings)
	}
	if warnings := ValidateFirstPayment(&loans.FirstPaymentOverride{Principal: 100, Interest: 5}, 1000); len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if warnings := ValidateFirstPayment(&loans.FirstPaymentOverride{Interest: 5}, 1000); len(warnings) != 1 {
		t.Errorf("expected zero principal warning, got %v", warnings)
	}
	if warnings := ValidateFirstPayment(&loans.FirstPaymentOverride{Principal: 2000}, 1000); len(warnings) != 1 {
		t.Errorf("expected oversized principal warning, got %v", warnings)
	}
}

func TestConfigValidatorValidateAll(t *testing.T) {
	cv := &ConfigValidator{Request: loans.ScheduleRequest{
		Loan: loans.LoanConfig{Principal: 1000, AnnualRatePercent: 5, TotalPeriods: 12},
		ExtraPayments: []loans.PeriodPayment{
			{Period: 2, Amount: 700},
			{Period: 2, Amount: 700},
		},
		Insurance:    loans.InsuranceConfig{Enabled: true},
		FirstPayment: &loans.FirstPaymentOverride{Interest: 4},
		Strategy:     loans.ReduceQuota,
	}}

	warnings := cv.ValidateAll()
	if len(warnings) != 5 {
		t.Errorf("expected 5 warnings, got %d: %v", len(warnings), warnings)
	}

	clean := &ConfigValidator{Request: loans.ScheduleRequest{
		Loan: loans.LoanConfig{Principal: 1000, AnnualRatePercent: 5, TotalPeriods: 12},
	}}
	if warnings := clean.ValidateAll(); len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

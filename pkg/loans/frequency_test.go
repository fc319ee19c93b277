package loans

import (
	"math"
	"testing"
)

func TestPeriodsPerYearAndLabel(t *testing.T) {
	tests := []struct {
		frequency PaymentFrequency
		periods   int
		label     string
	}{
		{Monthly, 12, "Month"},
		{BiWeekly, 26, "Period"},
		{Weekly, 52, "Week"},
		{PaymentFrequency("quarterly"), 12, "Month"},
	}

	for _, tt := range tests {
		t.Run(string(tt.frequency), func(t *testing.T) {
			if got := PeriodsPerYear(tt.frequency); got != tt.periods {
				t.Errorf("PeriodsPerYear(%s) = %d, expected %d", tt.frequency, got, tt.periods)
			}
			if got := PeriodLabel(tt.frequency); got != tt.label {
				t.Errorf("PeriodLabel(%s) = %s, expected %s", tt.frequency, got, tt.label)
			}
		})
	}
}

func TestParsePaymentFrequency(t *testing.T) {
	tests := []struct {
		input     string
		expected  PaymentFrequency
		wantError bool
	}{
		{"", Monthly, false},
		{"Monthly", Monthly, false},
		{"bi-weekly", BiWeekly, false},
		{"biweekly", BiWeekly, false},
		{" WEEKLY ", Weekly, false},
		{"daily", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParsePaymentFrequency(tt.input)
			if tt.wantError {
				if err == nil {
					t.Fatalf("ParsePaymentFrequency(%q) expected error", tt.input)
				}
				if !IsInvalidConfiguration(err) {
					t.Errorf("expected ErrInvalidConfiguration, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePaymentFrequency(%q) error = %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("ParsePaymentFrequency(%q) = %s, expected %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestPeriodRate(t *testing.T) {
	tests := []struct {
		name      string
		rate      float64
		frequency PaymentFrequency
		expected  float64
	}{
		{"Monthly", 12, Monthly, 0.01},
		{"Bi-weekly", 13, BiWeekly, 0.005},
		{"Weekly", 5.2, Weekly, 0.001},
		{"Zero rate", 0, Monthly, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := PeriodRate(tt.rate, tt.frequency); math.Abs(result-tt.expected) > 1e-12 {
				t.Errorf("PeriodRate() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

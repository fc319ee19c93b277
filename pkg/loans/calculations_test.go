package loans

import (
	"math"
	"testing"
)

func TestCalculatePayment(t *testing.T) {
	tests := []struct {
		name          string
		balance       float64
		periodRate    float64
		periods       int
		expectedRange []float64 // [min, max] expected range
	}{
		{
			name:          "One year at 12% annual",
			balance:       100000,
			periodRate:    0.01,
			periods:       12,
			expectedRange: []float64{8884.87, 8884.89},
		},
		{
			name:          "Standard 30-year mortgage",
			balance:       240000,
			periodRate:    0.005,
			periods:       360,
			expectedRange: []float64{1438, 1440}, // Around $1438.92
		},
		{
			name:          "Zero interest loan",
			balance:       12000,
			periodRate:    0,
			periods:       60,
			expectedRange: []float64{200, 200},
		},
		{
			name:          "Single remaining period repays balance and interest",
			balance:       1000,
			periodRate:    0.01,
			periods:       1,
			expectedRange: []float64{1009.99, 1010.01},
		},
		{
			name:          "Non-positive period count treated as one",
			balance:       500,
			periodRate:    0,
			periods:       0,
			expectedRange: []float64{500, 500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculatePayment(tt.balance, tt.periodRate, tt.periods)

			if math.IsNaN(result) || result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("CalculatePayment() = %.4f, expected range [%.2f, %.2f]",
					result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestCalculateInterestPayment(t *testing.T) {
	tests := []struct {
		name       string
		balance    float64
		periodRate float64
		expected   float64
	}{
		{"Monthly 12% rate", 100000, 0.01, 1000},
		{"Weekly rate", 52000, 0.052 / 52, 52},
		{"Zero rate", 10000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateInterestPayment(tt.balance, tt.periodRate)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("CalculateInterestPayment() = %.2f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestCalculateExtraPayment(t *testing.T) {
	payments := []PeriodPayment{
		{Period: 3, Amount: 1000},
		{Period: 5, Amount: 250},
		{Period: 3, Amount: 500},
	}

	tests := []struct {
		name     string
		period   int
		expected float64
	}{
		{"Multiple payments on the same period are summed", 3, 1500},
		{"Single payment", 5, 250},
		{"No payment", 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := CalculateExtraPayment(payments, tt.period); result != tt.expected {
				t.Errorf("CalculateExtraPayment() = %.2f, expected %.2f", result, tt.expected)
			}
		})
	}
}

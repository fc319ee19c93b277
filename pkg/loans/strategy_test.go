package loans

import "testing"

func TestParseExtraPaymentStrategy(t *testing.T) {
	tests := []struct {
		input     string
		expected  ExtraPaymentStrategy
		wantError bool
	}{
		{"", Auto, false},
		{"auto", Auto, false},
		{"reduce-term", ReduceTerm, false},
		{"REDUCE_QUOTA", ReduceQuota, false},
		{"reduce payment", ReduceQuota, false},
		{"skip", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseExtraPaymentStrategy(tt.input)
			if tt.wantError {
				if !IsInvalidConfiguration(err) {
					t.Fatalf("ParseExtraPaymentStrategy(%q) expected ErrInvalidConfiguration, got %v", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseExtraPaymentStrategy(%q) error = %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("ParseExtraPaymentStrategy(%q) = %s, expected %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestResolveStrategy(t *testing.T) {
	tests := []struct {
		name     string
		strategy ExtraPaymentStrategy
		payment  float64
		extra    float64
		expected ExtraPaymentStrategy
	}{
		{"Auto with small extra shortens the term", Auto, 1000, 500, ReduceTerm},
		{"Auto with extra equal to payment lowers the payment", Auto, 1000, 1000, ReduceQuota},
		{"Auto with large extra lowers the payment", Auto, 1000, 5000, ReduceQuota},
		{"Explicit reduce term", ReduceTerm, 1000, 5000, ReduceTerm},
		{"Explicit reduce quota", ReduceQuota, 1000, 500, ReduceQuota},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := ResolveStrategy(tt.strategy, tt.payment, tt.extra); result != tt.expected {
				t.Errorf("ResolveStrategy() = %s, expected %s", result, tt.expected)
			}
		})
	}
}

func TestRemainingPeriodsAfterExtra(t *testing.T) {
	tests := []struct {
		name            string
		strategy        ExtraPaymentStrategy
		balance         float64
		periodRate      float64
		pinned          float64
		payment         float64
		extra           float64
		remaining       int
		expected        int
		expectedClamped bool
	}{
		{
			name:       "Reduce quota keeps the term",
			strategy:   ReduceQuota,
			balance:    31492.09,
			periodRate: 0.01,
			payment:    8884.88,
			extra:      20000,
			remaining:  6,
			expected:   6,
		},
		{
			name:       "Reduce term amortizes the lower balance at the pinned payment",
			strategy:   ReduceTerm,
			balance:    31492.09,
			periodRate: 0.01,
			payment:    8884.88,
			extra:      20000,
			remaining:  6,
			expected:   4,
		},
		{
			name:       "Zero rate divides balance by payment",
			strategy:   ReduceTerm,
			balance:    4500,
			periodRate: 0,
			payment:    1000,
			extra:      2500,
			remaining:  8,
			expected:   5,
		},
		{
			name:       "Zero rate exact multiple",
			strategy:   ReduceTerm,
			balance:    5000,
			periodRate: 0,
			payment:    1000,
			extra:      2000,
			remaining:  7,
			expected:   5,
		},
		{
			name:       "Never extends the remaining term",
			strategy:   ReduceTerm,
			balance:    9000,
			periodRate: 0,
			payment:    1000,
			extra:      100,
			remaining:  5,
			expected:   5,
		},
		{
			name:            "Collapsed term is clamped to one period",
			strategy:        ReduceTerm,
			balance:         1e-12,
			periodRate:      0,
			payment:         1000,
			extra:           500,
			remaining:       5,
			expected:        1,
			expectedClamped: true,
		},
		{
			name:       "Payment below interest keeps the term",
			strategy:   ReduceTerm,
			balance:    100000,
			periodRate: 0.01,
			payment:    500,
			extra:      100,
			remaining:  10,
			expected:   10,
		},
		{
			name:       "Auto with small extra behaves as reduce term",
			strategy:   Auto,
			balance:    4500,
			periodRate: 0,
			payment:    1000,
			extra:      500,
			remaining:  8,
			expected:   5,
		},
		{
			name:       "Reduce term uses the pinned installment, not a re-amortized payment",
			strategy:   ReduceTerm,
			balance:    26590.21,
			periodRate: 0.01,
			pinned:     8884.88,
			payment:    3605.78,
			extra:      1000,
			remaining:  8,
			expected:   4,
		},
		{
			name:       "Auto compares the extra with the current payment",
			strategy:   Auto,
			balance:    26590.21,
			periodRate: 0.01,
			pinned:     8884.88,
			payment:    3605.78,
			extra:      5000,
			remaining:  8,
			expected:   8,
		},
		{
			name:       "Auto with large extra behaves as reduce quota",
			strategy:   Auto,
			balance:    4500,
			periodRate: 0,
			payment:    1000,
			extra:      2500,
			remaining:  8,
			expected:   8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pinned := tt.pinned
			if pinned == 0 {
				pinned = tt.payment
			}
			result, clamped := RemainingPeriodsAfterExtra(tt.strategy, tt.balance, tt.periodRate, pinned, tt.payment, tt.extra, tt.remaining)
			if result != tt.expected {
				t.Errorf("RemainingPeriodsAfterExtra() = %d, expected %d", result, tt.expected)
			}
			if clamped != tt.expectedClamped {
				t.Errorf("RemainingPeriodsAfterExtra() clamped = %t, expected %t", clamped, tt.expectedClamped)
			}
		})
	}
}

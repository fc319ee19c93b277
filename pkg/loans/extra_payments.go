package loans

import (
	"github.com/google/uuid"
)

// ExtraPayment is an identified extra capital payment as edited by users.
type ExtraPayment struct {
	ID     string  `json:"id"`
	Period int     `json:"period"`
	Amount float64 `json:"amount"`
}

// ExtraPaymentSet keeps the extra payments of one loan in insertion order and
// validates every entry against the loan term.
type ExtraPaymentSet struct {
	totalPeriods int
	items        []ExtraPayment
}

// NewExtraPaymentSet creates an empty set for a loan with totalPeriods periods.
func NewExtraPaymentSet(totalPeriods int) *ExtraPaymentSet {
	return &ExtraPaymentSet{totalPeriods: totalPeriods}
}

// Add validates and appends a new extra payment, assigning it a fresh id.
func (s *ExtraPaymentSet) Add(period int, amount float64) (ExtraPayment, error) {
	if err := ValidateExtraPayment(period, amount, s.totalPeriods); err != nil {
		return ExtraPayment{}, err
	}
	payment := ExtraPayment{ID: uuid.NewString(), Period: period, Amount: amount}
	s.items = append(s.items, payment)
	return payment, nil
}

// Restore appends previously stored payments, keeping their ids. Invalid or
// duplicate entries are rejected and nothing is added.
func (s *ExtraPaymentSet) Restore(payments ...ExtraPayment) error {
	seen := make(map[string]struct{}, len(s.items)+len(payments))
	for _, item := range s.items {
		seen[item.ID] = struct{}{}
	}
	for _, payment := range payments {
		if payment.ID == "" {
			return extraPaymentError("id", payment.ID, "must not be empty")
		}
		if _, dup := seen[payment.ID]; dup {
			return extraPaymentError("id", payment.ID, "is already present")
		}
		if err := ValidateExtraPayment(payment.Period, payment.Amount, s.totalPeriods); err != nil {
			return err
		}
		seen[payment.ID] = struct{}{}
	}
	s.items = append(s.items, payments...)
	return nil
}

// Update changes the period and amount of an existing payment.
func (s *ExtraPaymentSet) Update(id string, period int, amount float64) (ExtraPayment, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return ExtraPayment{}, ErrExtraPaymentNotFound
	}
	if err := ValidateExtraPayment(period, amount, s.totalPeriods); err != nil {
		return ExtraPayment{}, err
	}
	s.items[idx].Period = period
	s.items[idx].Amount = amount
	return s.items[idx], nil
}

// Remove deletes a payment and reports whether it existed.
func (s *ExtraPaymentSet) Remove(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return true
}

// Get returns the payment with the given id.
func (s *ExtraPaymentSet) Get(id string) (ExtraPayment, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return ExtraPayment{}, false
	}
	return s.items[idx], true
}

// List returns a copy of the payments in insertion order.
func (s *ExtraPaymentSet) List() []ExtraPayment {
	out := make([]ExtraPayment, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of payments in the set.
func (s *ExtraPaymentSet) Len() int {
	return len(s.items)
}

// TotalForPeriod sums the payments targeting a period.
func (s *ExtraPaymentSet) TotalForPeriod(period int) float64 {
	return CalculateExtraPayment(s.Payments(), period)
}

// Payments strips the ids, producing the input the generator consumes.
func (s *ExtraPaymentSet) Payments() []PeriodPayment {
	out := make([]PeriodPayment, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, PeriodPayment{Period: item.Period, Amount: item.Amount})
	}
	return out
}

func (s *ExtraPaymentSet) indexOf(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

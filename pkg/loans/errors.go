package loans

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned when a loan configuration cannot be
	// amortized (non-positive principal or period count, negative rate, ...).
	ErrInvalidConfiguration = errors.New("invalid loan configuration")

	// ErrInvalidExtraPayment is returned when an extra payment has a
	// non-positive amount or targets a period outside the loan term.
	ErrInvalidExtraPayment = errors.New("invalid extra payment")

	// ErrExtraPaymentNotFound is returned when an extra payment id is unknown.
	ErrExtraPaymentNotFound = errors.New("extra payment not found")
)

// ValidationError describes the field that failed validation.
type ValidationError struct {
	Field  string
	Value  interface{}
	Reason string
	kind   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s %s (got %v)", e.kind, e.Field, e.Reason, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.kind
}

func configError(field string, value interface{}, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason, kind: ErrInvalidConfiguration}
}

func extraPaymentError(field string, value interface{}, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason, kind: ErrInvalidExtraPayment}
}

// IsInvalidConfiguration reports whether err was caused by a rejected loan configuration.
func IsInvalidConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

// IsInvalidExtraPayment reports whether err was caused by a rejected extra payment.
func IsInvalidExtraPayment(err error) bool {
	return errors.Is(err, ErrInvalidExtraPayment)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return IsInvalidConfiguration(err) || IsInvalidExtraPayment(err) || errors.Is(err, ErrExtraPaymentNotFound)
}

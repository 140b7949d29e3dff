package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrQuantityTooLarge     = errors.New("quantity exceeds the per-line limit")
	ErrDuplicateItem        = errors.New("product already in cart")
	ErrInsufficientCredit   = errors.New("not enough credits available")
	ErrNotFound             = errors.New("not found")
)

// ValidationError reports malformed input. Nothing was written.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func invalidErr(field string, err error) error {
	return &ValidationError{Field: field, Reason: err.Error(), Err: err}
}

// InsufficientCreditError is returned when more credit is requested than
// the stored balance holds.
type InsufficientCreditError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientCreditError) Error() string {
	return fmt.Sprintf("%s: requested %s, available %s",
		ErrInsufficientCredit, e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

func (e *InsufficientCreditError) Unwrap() error { return ErrInsufficientCredit }

type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// PersistenceError wraps a storage failure. Its message is for operators;
// callers show a generic failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// isDomainError reports whether err already carries one of the kinds above.
func isDomainError(err error) bool {
	var (
		ve *ValidationError
		ie *InsufficientCreditError
		ne *NotFoundError
		pe *PersistenceError
	)
	return errors.As(err, &ve) || errors.As(err, &ie) || errors.As(err, &ne) || errors.As(err, &pe)
}

package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidAmount      = errors.New("invalid amount")

	ErrWindowClosed       = errors.New("order window is closed")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrMissingCustomer    = errors.New("customer name, email and phone are required")
	ErrInvalidCustomer    = errors.New("customer contact details are too long")
	ErrProductNotFound    = errors.New("product not found")
	ErrExceedsCap         = errors.New("remaining exceeds weekly cap")
	ErrUncapped           = errors.New("product has no weekly cap")
	ErrInvalidProduct     = errors.New("invalid product")
	ErrInvalidImage       = errors.New("invalid image")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrMalformedMetadata  = errors.New("malformed payment metadata")
	ErrPostPaymentFailure = errors.New("payment captured but order could not be admitted")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrPaymentUnavailable = errors.New("payment processor unavailable")
	ErrEscalationFailed   = errors.New("escalation could not be recorded")
)

// InsufficientStockError reports the first cart line that could not be reserved.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ProductName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// PostPaymentAdmissionError wraps an admission failure that happened after the
// customer was charged. It always needs manual reconciliation or a refund.
type PostPaymentAdmissionError struct {
	PaymentIntentID string
	Cause           error
}

func (e *PostPaymentAdmissionError) Error() string {
	return fmt.Sprintf("payment %s captured but order rejected: %v", e.PaymentIntentID, e.Cause)
}

func (e *PostPaymentAdmissionError) Unwrap() error {
	return e.Cause
}

func (e *PostPaymentAdmissionError) Is(target error) bool {
	return target == ErrPostPaymentFailure
}

// MetadataError describes which payment metadata field failed validation.
type MetadataError struct {
	Field  string
	Reason string
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("malformed payment metadata: %s %s", e.Field, e.Reason)
}

func (e *MetadataError) Is(target error) bool {
	return target == ErrMalformedMetadata
}

// Unavailable marks err as a transient storage failure.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

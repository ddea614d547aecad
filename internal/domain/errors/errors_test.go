package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"already exists", ErrAlreadyExists},
		{"not found", ErrNotFound},
		{"invalid credentials", ErrInvalidCredentials},
		{"window closed", ErrWindowClosed},
		{"invalid signature", ErrInvalidSignature},
		{"malformed metadata", ErrMalformedMetadata},
		{"storage unavailable", ErrStorageUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
		})
	}
}

func TestInsufficientStockError(t *testing.T) {
	var err error = &InsufficientStockError{ProductID: "p1", ProductName: "Sourdough", Requested: 3, Available: 2}
	wrapped := fmt.Errorf("place order: %w", err)

	if !stdErrors.Is(wrapped, ErrInsufficientStock) {
		t.Fatal("expected wrapped error to match ErrInsufficientStock")
	}
	var stock *InsufficientStockError
	if !stdErrors.As(wrapped, &stock) {
		t.Fatal("expected errors.As to extract InsufficientStockError")
	}
	if stock.Available != 2 || stock.ProductName != "Sourdough" {
		t.Fatalf("unexpected details: %+v", stock)
	}
	if got := err.Error(); got != "insufficient stock for Sourdough: requested 3, available 2" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestPostPaymentAdmissionError(t *testing.T) {
	err := &PostPaymentAdmissionError{PaymentIntentID: "pi_1", Cause: ErrWindowClosed}

	if !stdErrors.Is(err, ErrPostPaymentFailure) {
		t.Fatal("expected match on ErrPostPaymentFailure")
	}
	if !stdErrors.Is(err, ErrWindowClosed) {
		t.Fatal("expected cause to be unwrapped")
	}
	if stdErrors.Is(err, ErrInsufficientStock) {
		t.Fatal("did not expect stock error match")
	}
}

func TestMetadataError(t *testing.T) {
	err := &MetadataError{Field: "items", Reason: "is missing"}
	if !stdErrors.Is(err, ErrMalformedMetadata) {
		t.Fatal("expected match on ErrMalformedMetadata")
	}
	if err.Error() != "malformed payment metadata: items is missing" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestUnavailable(t *testing.T) {
	if Unavailable(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
	cause := stdErrors.New("dial tcp: refused")
	err := Unavailable(cause)
	if !stdErrors.Is(err, ErrStorageUnavailable) || !stdErrors.Is(err, cause) {
		t.Fatalf("expected both sentinel and cause to match, got %v", err)
	}
}

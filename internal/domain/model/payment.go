package model

import "time"

// PaymentEventType names the processor events the reconciler understands.
type PaymentEventType string

const (
	PaymentSucceeded PaymentEventType = "payment_intent.succeeded"
	PaymentFailed    PaymentEventType = "payment_intent.payment_failed"
)

// IntentRequest describes a payment intent to create at the processor.
type IntentRequest struct {
	AmountCents  int64
	Currency     string
	ReceiptEmail string
	Description  string
	Metadata     map[string]string
}

// PaymentIntent is the processor's handle for a pending payment.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	AmountCents  int64
	Currency     string
}

// PaymentEvent is a verified event delivered by the payment processor.
type PaymentEvent struct {
	ID              string
	Type            PaymentEventType
	PaymentIntentID string
	AmountCents     int64
	Currency        string
	ReceiptEmail    string
	Metadata        map[string]string
	FailureMessage  string
	PaidAt          time.Time
}

// EscalationKind classifies payments that need manual follow-up.
type EscalationKind string

const (
	EscalationAdmissionFailed   EscalationKind = "admission_failed"
	EscalationMalformedMetadata EscalationKind = "malformed_metadata"
)

// Escalation records a captured payment that could not become an order.
type Escalation struct {
	Kind            EscalationKind
	EventID         string
	PaymentIntentID string
	AmountCents     int64
	Currency        string
	Customer        Customer
	Lines           []CartLine
	Reason          string
	OccurredAt      time.Time
}

package kafka

import (
	"encoding/json"
	"time"
)

const (
	EventPaymentEscalated = "PaymentEscalated"
	EventOrderPlaced      = "OrderPlaced"

	eventVersion = 1
	producerName = "sourbakery"
)

// Envelope wraps every message written to the bus.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type CustomerPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type LinePayload struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type ItemPayload struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Qty         int    `json:"qty"`
	PriceCents  int64  `json:"price_cents"`
}

type PaymentEscalatedPayload struct {
	Kind            string          `json:"kind"`
	EventID         string          `json:"event_id"`
	PaymentIntentID string          `json:"payment_intent_id"`
	AmountCents     int64           `json:"amount_cents"`
	Currency        string          `json:"currency"`
	Customer        CustomerPayload `json:"customer"`
	Lines           []LinePayload   `json:"lines"`
	Reason          string          `json:"reason"`
}

type OrderPlacedPayload struct {
	OrderID         string          `json:"order_id"`
	PaymentIntentID string          `json:"payment_intent_id,omitempty"`
	Customer        CustomerPayload `json:"customer"`
	Items           []ItemPayload   `json:"items"`
	TotalCents      int64           `json:"total_cents"`
	Status          string          `json:"status"`
}

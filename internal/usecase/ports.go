package usecase

import (
	"context"
	"time"

	"github.com/polkiloo/sourbakery/internal/domain/model"
)

// PaymentProcessor creates payment intents with the card processor.
type PaymentProcessor interface {
	CreateIntent(ctx context.Context, req model.IntentRequest) (*model.PaymentIntent, error)
}

// PaymentEventVerifier authenticates a signed webhook payload.
type PaymentEventVerifier interface {
	Verify(payload []byte, signatureHeader string) (*model.PaymentEvent, error)
}

// IntentCache maps payment intents to the order created for them. It is an
// accelerator only: callers treat every error as a miss.
type IntentCache interface {
	Lookup(ctx context.Context, paymentIntentID string) (orderID string, ok bool, err error)
	Remember(ctx context.Context, paymentIntentID, orderID string) error
}

// Escalator records payments that need manual follow-up.
type Escalator interface {
	Escalate(ctx context.Context, escalation model.Escalation) error
}

// OrderEvents publishes order lifecycle notifications.
type OrderEvents interface {
	OrderPlaced(ctx context.Context, order model.Order) error
}

// BlobStore keeps product images under opaque references.
type BlobStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (ref string, err error)
	Delete(ctx context.Context, ref string) error
}

// Clock returns the current instant.
type Clock func() time.Time

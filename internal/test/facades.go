package test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/polkiloo/sourbakery/internal/domain/model"
)

// PaymentProcessorStub records intent requests.
type PaymentProcessorStub struct {
	CreateFn func(context.Context, model.IntentRequest) (*model.PaymentIntent, error)

	mu       sync.Mutex
	Requests []model.IntentRequest
}

// CreateIntent returns pi_<n> intents unless overridden.
func (s *PaymentProcessorStub) CreateIntent(ctx context.Context, req model.IntentRequest) (*model.PaymentIntent, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	n := len(s.Requests)
	s.mu.Unlock()
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	id := fmt.Sprintf("pi_%d", n)
	return &model.PaymentIntent{ID: id, ClientSecret: id + "_secret", AmountCents: req.AmountCents, Currency: req.Currency}, nil
}

// VerifierStub returns Event for any payload signed with Signature.
type VerifierStub struct {
	Signature string
	Event     *model.PaymentEvent
}

// Verify checks the header against the configured signature.
func (v VerifierStub) Verify(payload []byte, signatureHeader string) (*model.PaymentEvent, error) {
	if signatureHeader != v.Signature || v.Event == nil {
		return nil, errors.New("signature mismatch")
	}
	event := *v.Event
	return &event, nil
}

// IntentCacheStub is a map based idempotency cache.
type IntentCacheStub struct {
	LookupErr   error
	RememberErr error

	mu      sync.Mutex
	Entries map[string]string
}

// Lookup returns a cached order id.
func (c *IntentCacheStub) Lookup(ctx context.Context, paymentIntentID string) (string, bool, error) {
	if c.LookupErr != nil {
		return "", false, c.LookupErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.Entries[paymentIntentID]
	return id, ok, nil
}

// Remember caches an order id.
func (c *IntentCacheStub) Remember(ctx context.Context, paymentIntentID, orderID string) error {
	if c.RememberErr != nil {
		return c.RememberErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Entries == nil {
		c.Entries = make(map[string]string)
	}
	c.Entries[paymentIntentID] = orderID
	return nil
}

// EscalatorStub records escalations.
type EscalatorStub struct {
	Err error

	mu          sync.Mutex
	Escalations []model.Escalation
}

// Escalate records escalation or fails with Err.
func (e *EscalatorStub) Escalate(ctx context.Context, escalation model.Escalation) error {
	if e.Err != nil {
		return e.Err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Escalations = append(e.Escalations, escalation)
	return nil
}

// Count returns the number of recorded escalations.
func (e *EscalatorStub) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Escalations)
}

// OrderEventsStub records published orders.
type OrderEventsStub struct {
	Err error

	mu     sync.Mutex
	Placed []model.Order
}

// OrderPlaced records the order and returns Err.
func (o *OrderEventsStub) OrderPlaced(ctx context.Context, order model.Order) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Placed = append(o.Placed, order)
	return o.Err
}

// Count returns the number of published orders.
func (o *OrderEventsStub) Count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.Placed)
}

// BlobStoreStub keeps blobs in memory.
type BlobStoreStub struct {
	PutErr    error
	DeleteErr error

	mu      sync.Mutex
	Blobs   map[string][]byte
	Deleted []string
}

// Put stores data under name.
func (b *BlobStoreStub) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if b.PutErr != nil {
		return "", b.PutErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Blobs == nil {
		b.Blobs = make(map[string][]byte)
	}
	b.Blobs[name] = append([]byte(nil), data...)
	return name, nil
}

// Delete removes ref and records the call.
func (b *BlobStoreStub) Delete(ctx context.Context, ref string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Deleted = append(b.Deleted, ref)
	if b.DeleteErr != nil {
		return b.DeleteErr
	}
	delete(b.Blobs, ref)
	return nil
}

package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/polkiloo/sourbakery/internal/domain/model"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Topics names the destination of each event kind.
type Topics struct {
	Escalations string
	OrderEvents string
}

// Publisher writes escalations and order events synchronously so a failed
// write surfaces to the caller.
type Publisher struct {
	w      messageWriter
	topics Topics
	logger *slog.Logger
	now    func() time.Time
}

// NewPublisher creates a publisher backed by a kafka writer.
func NewPublisher(brokers []string, topics Topics, logger *slog.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(w, topics, logger)
}

func newPublisher(w messageWriter, topics Topics, logger *slog.Logger) *Publisher {
	return &Publisher{w: w, topics: topics, logger: logger, now: time.Now}
}

// Escalate records a captured payment that needs a human.
func (p *Publisher) Escalate(ctx context.Context, escalation model.Escalation) error {
	occurredAt := escalation.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = p.now()
	}
	return p.publish(ctx, p.topics.Escalations, EventPaymentEscalated, escalation.PaymentIntentID, occurredAt, escalationPayload(escalation))
}

// OrderPlaced announces a committed order.
func (p *Publisher) OrderPlaced(ctx context.Context, order model.Order) error {
	return p.publish(ctx, p.topics.OrderEvents, EventOrderPlaced, order.ID, p.now(), orderPayload(order))
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.w.Close()
}

func (p *Publisher) publish(ctx context.Context, topic, eventType, key string, occurredAt time.Time, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  eventVersion,
		OccurredAt:    occurredAt.UTC(),
		Producer:      producerName,
		CorrelationID: key,
		Payload:       raw,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  occurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	p.logger.Debug("event published", slog.String("topic", topic), slog.String("event_type", eventType), slog.String("key", key))
	return nil
}

func customerPayload(c model.Customer) CustomerPayload {
	return CustomerPayload{Name: c.Name, Email: c.Email, Phone: c.Phone}
}

func escalationPayload(e model.Escalation) PaymentEscalatedPayload {
	lines := make([]LinePayload, 0, len(e.Lines))
	for _, line := range e.Lines {
		lines = append(lines, LinePayload{ProductID: line.ProductID, Qty: line.Quantity})
	}
	return PaymentEscalatedPayload{
		Kind:            string(e.Kind),
		EventID:         e.EventID,
		PaymentIntentID: e.PaymentIntentID,
		AmountCents:     e.AmountCents,
		Currency:        e.Currency,
		Customer:        customerPayload(e.Customer),
		Lines:           lines,
		Reason:          e.Reason,
	}
}

func orderPayload(o model.Order) OrderPlacedPayload {
	items := make([]ItemPayload, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ItemPayload{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Qty:         item.Quantity,
			PriceCents:  model.ToCents(item.Price),
		})
	}
	return OrderPlacedPayload{
		OrderID:         o.ID,
		PaymentIntentID: o.PaymentIntentID,
		Customer:        customerPayload(o.Customer),
		Items:           items,
		TotalCents:      model.ToCents(o.Total),
		Status:          string(o.Status),
	}
}

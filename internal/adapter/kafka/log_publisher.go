package kafka

import (
	"context"
	"log/slog"

	"github.com/polkiloo/sourbakery/internal/domain/model"
)

// LogPublisher stands in for the bus when no brokers are configured.
// Escalations are logged at error level so they reach alerting.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Escalate(_ context.Context, e model.Escalation) error {
	p.logger.Error("payment needs manual reconciliation",
		slog.String("kind", string(e.Kind)),
		slog.String("event_id", e.EventID),
		slog.String("payment_intent_id", e.PaymentIntentID),
		slog.Int64("amount_cents", e.AmountCents),
		slog.String("currency", e.Currency),
		slog.String("customer_email", e.Customer.Email),
		slog.String("reason", e.Reason),
	)
	return nil
}

func (p *LogPublisher) OrderPlaced(_ context.Context, o model.Order) error {
	p.logger.Info("order placed",
		slog.String("order_id", o.ID),
		slog.String("payment_intent_id", o.PaymentIntentID),
		slog.String("total", o.Total.StringFixed(2)),
	)
	return nil
}

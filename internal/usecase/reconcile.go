package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/domain/model"
	"github.com/polkiloo/sourbakery/internal/domain/repository"
)

// WebhookResult summarises how a verified event was handled.
type WebhookResult struct {
	EventID   string
	Type      model.PaymentEventType
	OrderID   string
	Escalated bool
	Ignored   bool
}

// PaymentReconciler turns confirmed payments into orders exactly once.
type PaymentReconciler struct {
	verifier  PaymentEventVerifier
	admission *AdmissionUseCase
	orders    repository.OrderRepository
	cache     IntentCache
	escalator Escalator
	logger    *slog.Logger
	clock     Clock
}

// NewPaymentReconciler constructs PaymentReconciler.
func NewPaymentReconciler(
	verifier PaymentEventVerifier,
	admission *AdmissionUseCase,
	orders repository.OrderRepository,
	cache IntentCache,
	escalator Escalator,
	logger *slog.Logger,
) *PaymentReconciler {
	return &PaymentReconciler{
		verifier:  verifier,
		admission: admission,
		orders:    orders,
		cache:     cache,
		escalator: escalator,
		logger:    logger,
		clock:     time.Now,
	}
}

// HandleWebhook verifies and dispatches a raw webhook delivery. A payment that
// was escalated after a rejected admission is reported through Escalated with
// a nil error so the processor stops redelivering it.
func (r *PaymentReconciler) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) (WebhookResult, error) {
	event, err := r.verifier.Verify(payload, signatureHeader)
	if err != nil {
		r.logger.Warn("rejected webhook delivery", slog.Any("error", err))
		return WebhookResult{}, fmt.Errorf("%w: %v", domainErrors.ErrInvalidSignature, err)
	}

	result := WebhookResult{EventID: event.ID, Type: event.Type}

	switch event.Type {
	case model.PaymentSucceeded:
		orderID, err := r.OnPaymentConfirmed(ctx, *event)
		result.OrderID = orderID
		switch {
		case err == nil:
			return result, nil
		case errors.Is(err, domainErrors.ErrEscalationFailed):
			return result, err
		case errors.Is(err, domainErrors.ErrPostPaymentFailure):
			result.Escalated = true
			return result, nil
		case errors.Is(err, domainErrors.ErrMalformedMetadata):
			result.Escalated = true
			return result, err
		default:
			return result, err
		}
	case model.PaymentFailed:
		r.logger.Warn("payment failed",
			slog.String("event_id", event.ID),
			slog.String("payment_intent_id", event.PaymentIntentID),
			slog.String("reason", event.FailureMessage))
	default:
		result.Ignored = true
		r.logger.Debug("ignored webhook event", slog.String("event_id", event.ID), slog.String("type", string(event.Type)))
	}
	return result, nil
}

// OnPaymentConfirmed creates the order for a captured payment, or returns the
// order already created for it. Admission is evaluated at the payment time.
func (r *PaymentReconciler) OnPaymentConfirmed(ctx context.Context, event model.PaymentEvent) (string, error) {
	intentID := event.PaymentIntentID
	if intentID == "" {
		err := &domainErrors.MetadataError{Field: "payment_intent", Reason: "is missing"}
		r.logger.Error("payment event without intent", slog.String("event_id", event.ID))
		return "", r.escalate(ctx, event, model.EscalationMalformedMetadata, model.Customer{}, nil, err)
	}
	log := r.logger.With(slog.String("event_id", event.ID), slog.String("payment_intent_id", intentID))

	if orderID, ok, err := r.cache.Lookup(ctx, intentID); err != nil {
		log.Warn("idempotency cache lookup failed", slog.Any("error", err))
	} else if ok {
		log.Info("duplicate payment event", slog.String("order_id", orderID))
		return orderID, nil
	}

	existing, err := r.orders.GetByPaymentIntent(ctx, intentID)
	switch {
	case err == nil:
		log.Info("duplicate payment event", slog.String("order_id", existing.ID))
		r.remember(ctx, log, intentID, existing.ID)
		return existing.ID, nil
	case !errors.Is(err, domainErrors.ErrNotFound):
		return "", err
	}

	meta, err := DecodeOrderMetadata(event.Metadata, event.ReceiptEmail)
	if err != nil {
		log.Error("payment metadata rejected",
			slog.Int64("amount_cents", event.AmountCents),
			slog.Any("metadata", event.Metadata),
			slog.Any("error", err))
		return "", r.escalate(ctx, event, model.EscalationMalformedMetadata, model.Customer{}, nil, err)
	}

	paidAt := event.PaidAt
	if paidAt.IsZero() {
		paidAt = r.clock()
	}

	order, _, err := r.admission.PlaceOrder(ctx, PlaceOrderRequest{
		Customer:        meta.Customer,
		Lines:           meta.CartLines(),
		PaymentIntentID: intentID,
		Now:             paidAt,
	})
	if err != nil {
		if !isAdmissionRejection(err) {
			return "", err
		}
		// A concurrent delivery of the same intent may have committed between
		// the lookup above and admission; its reservation is what we just hit.
		if existing, lookupErr := r.orders.GetByPaymentIntent(ctx, intentID); lookupErr == nil {
			log.Info("duplicate payment event", slog.String("order_id", existing.ID))
			r.remember(ctx, log, intentID, existing.ID)
			return existing.ID, nil
		} else if !errors.Is(lookupErr, domainErrors.ErrNotFound) {
			return "", lookupErr
		}
		failure := &domainErrors.PostPaymentAdmissionError{PaymentIntentID: intentID, Cause: err}
		log.Error("captured payment could not be admitted",
			slog.Int64("amount_cents", event.AmountCents),
			slog.String("customer_email", meta.Customer.Email),
			slog.Time("paid_at", paidAt),
			slog.Any("error", err))
		return "", r.escalate(ctx, event, model.EscalationAdmissionFailed, meta.Customer, meta.CartLines(), failure)
	}

	r.remember(ctx, log, intentID, order.ID)
	return order.ID, nil
}

func (r *PaymentReconciler) escalate(ctx context.Context, event model.PaymentEvent, kind model.EscalationKind, customer model.Customer, lines []model.CartLine, cause error) error {
	escalation := model.Escalation{
		Kind:            kind,
		EventID:         event.ID,
		PaymentIntentID: event.PaymentIntentID,
		AmountCents:     event.AmountCents,
		Currency:        event.Currency,
		Customer:        customer,
		Lines:           lines,
		Reason:          cause.Error(),
		OccurredAt:      r.clock(),
	}
	if err := r.escalator.Escalate(ctx, escalation); err != nil {
		r.logger.Error("escalation failed",
			slog.String("payment_intent_id", event.PaymentIntentID),
			slog.Any("error", err))
		return fmt.Errorf("%w: %w", domainErrors.ErrEscalationFailed, cause)
	}
	return cause
}

func (r *PaymentReconciler) remember(ctx context.Context, log *slog.Logger, intentID, orderID string) {
	if err := r.cache.Remember(ctx, intentID, orderID); err != nil {
		log.Warn("idempotency cache write failed", slog.Any("error", err))
	}
}

func isAdmissionRejection(err error) bool {
	for _, target := range []error{
		domainErrors.ErrWindowClosed,
		domainErrors.ErrInsufficientStock,
		domainErrors.ErrProductNotFound,
		domainErrors.ErrMissingCustomer,
		domainErrors.ErrInvalidCustomer,
		domainErrors.ErrEmptyCart,
		domainErrors.ErrInvalidQuantity,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

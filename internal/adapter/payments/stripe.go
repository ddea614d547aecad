package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/domain/model"
)

var (
	ErrMissingSecretKey     = errors.New("stripe secret key is not configured")
	ErrMissingWebhookSecret = errors.New("stripe webhook secret is not configured")
)

// StripeGateway creates payment intents and verifies webhook deliveries.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	tolerance     time.Duration
	logger        *slog.Logger
}

// Options tweaks the gateway. BackendURL points the API client elsewhere
// (stripe-mock, tests).
type Options struct {
	BackendURL string
	Tolerance  time.Duration
}

// NewStripeGateway creates a gateway for the given keys.
func NewStripeGateway(secretKey, webhookSecret string, opts Options, logger *slog.Logger) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, ErrMissingSecretKey
	}
	if webhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}

	var backends *stripe.Backends
	if opts.BackendURL != "" {
		backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:               stripe.String(opts.BackendURL),
			MaxNetworkRetries: stripe.Int64(0),
		})
		backends = &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
	}

	tolerance := opts.Tolerance
	if tolerance <= 0 {
		tolerance = webhook.DefaultTolerance
	}

	return &StripeGateway{
		api:           client.New(secretKey, backends),
		webhookSecret: webhookSecret,
		tolerance:     tolerance,
		logger:        logger,
	}, nil
}

// CreateIntent registers a payment intent with automatic payment methods.
func (g *StripeGateway) CreateIntent(ctx context.Context, req model.IntentRequest) (*model.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountCents),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(req.ReceiptEmail)
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	params.Context = ctx
	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &model.PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountCents:  intent.Amount,
		Currency:     string(intent.Currency),
	}, nil
}

// Verify checks the Stripe-Signature header and decodes payment intent events.
// Events of other types come back with only ID and Type set.
func (g *StripeGateway) Verify(payload []byte, signatureHeader string) (*model.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, g.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                g.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrInvalidSignature, err)
	}

	result := &model.PaymentEvent{
		ID:     event.ID,
		Type:   model.PaymentEventType(event.Type),
		PaidAt: time.Unix(event.Created, 0).UTC(),
	}
	if result.Type != model.PaymentSucceeded && result.Type != model.PaymentFailed {
		g.logger.Debug("webhook event without payment intent", slog.String("event_id", event.ID), slog.String("type", string(event.Type)))
		return result, nil
	}
	if event.Data == nil {
		return nil, &domainErrors.MetadataError{Field: "data", Reason: "is missing"}
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, &domainErrors.MetadataError{Field: "data", Reason: "is not a payment intent"}
	}

	result.PaymentIntentID = intent.ID
	result.AmountCents = intent.Amount
	result.Currency = string(intent.Currency)
	result.ReceiptEmail = intent.ReceiptEmail
	result.Metadata = intent.Metadata
	if intent.LastPaymentError != nil {
		result.FailureMessage = intent.LastPaymentError.Msg
	}
	return result, nil
}

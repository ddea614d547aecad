package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/domain/model"
	"github.com/polkiloo/sourbakery/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// CheckoutRequest is a cart submitted for payment.
type CheckoutRequest struct {
	Customer model.Customer
	Lines    []model.CartLine
	Now      time.Time
}

// CheckoutResult is returned to the storefront to confirm the card payment.
type CheckoutResult struct {
	PaymentIntentID string
	ClientSecret    string
	Amount          decimal.Decimal
	AmountCents     int64
}

// CheckoutUseCase prices a cart and opens a payment intent for it. Stock is
// only checked here; it is reserved when the payment is confirmed.
type CheckoutUseCase struct {
	window   *OrderWindow
	ledger   *InventoryLedger
	products repository.ProductRepository
	payments PaymentProcessor
	currency string
	logger   *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(
	window *OrderWindow,
	ledger *InventoryLedger,
	products repository.ProductRepository,
	payments PaymentProcessor,
	currency string,
	logger *slog.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		window:   window,
		ledger:   ledger,
		products: products,
		payments: payments,
		currency: currency,
		logger:   logger,
	}
}

// CreatePaymentIntent validates the cart against the window and current stock
// and creates a payment intent for the server-side total.
func (u *CheckoutUseCase) CreatePaymentIntent(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if !u.window.IsOpen(req.Now) {
		return nil, domainErrors.ErrWindowClosed
	}

	customer, err := NormalizeCustomer(req.Customer)
	if err != nil {
		return nil, err
	}

	lines, err := AggregateLines(req.Lines)
	if err != nil {
		return nil, err
	}

	items, _, err := quoteCart(ctx, u.products, u.ledger, lines)
	if err != nil {
		return nil, err
	}

	total := model.SumItems(items)
	cents := model.ToCents(total)
	if cents <= 0 {
		return nil, domainErrors.ErrInvalidAmount
	}

	metadata, err := EncodeOrderMetadata(customer, items)
	if err != nil {
		return nil, err
	}

	intent, err := u.payments.CreateIntent(ctx, model.IntentRequest{
		AmountCents:  cents,
		Currency:     u.currency,
		ReceiptEmail: customer.Email,
		Description:  fmt.Sprintf("Bakery order for %s", customer.Name),
		Metadata:     metadata,
	})
	if err != nil {
		u.logger.Error("create payment intent failed", slog.Int64("amount_cents", cents), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrPaymentUnavailable, err)
	}

	u.logger.Info("payment intent created",
		slog.String("payment_intent_id", intent.ID),
		slog.Int64("amount_cents", cents))

	return &CheckoutResult{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          total,
		AmountCents:     cents,
	}, nil
}

package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/domain/model"
	"github.com/polkiloo/sourbakery/internal/domain/repository"
)

// OrderUseCase serves order lookups and the admin status workflow.
type OrderUseCase struct {
	orders   repository.OrderRepository
	lookback time.Duration
	logger   *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase. lookback bounds how old an order
// found by email alone may be during verification.
func NewOrderUseCase(orders repository.OrderRepository, lookback time.Duration, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, lookback: lookback, logger: logger}
}

// List returns orders newest first, optionally filtered by status.
func (u *OrderUseCase) List(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	if status != nil && !status.Valid() {
		return nil, domainErrors.ErrInvalidStatus
	}
	return u.orders.List(ctx, status)
}

// Get returns a single order.
func (u *OrderUseCase) Get(ctx context.Context, id string) (*model.Order, error) {
	return u.orders.GetByID(ctx, id)
}

// UpdateStatus moves an order along the status workflow. Setting the current
// status again changes nothing.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, id string, to model.OrderStatus) (*model.Order, error) {
	if !to.Valid() {
		return nil, domainErrors.ErrInvalidStatus
	}

	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == to {
		return order, nil
	}
	if !model.CanTransition(order.Status, to) {
		return nil, domainErrors.ErrInvalidTransition
	}

	if err := u.orders.UpdateStatus(ctx, id, order.Status, to); err != nil {
		return nil, err
	}

	u.logger.Info("order status changed",
		slog.String("order_id", id),
		slog.String("from", string(order.Status)),
		slog.String("to", string(to)))

	order.Status = to
	return order, nil
}

// Verify finds the order created for a payment so the storefront can show a
// confirmation. When the payment has no order yet, the most recent order for
// the email within the lookback is accepted instead.
func (u *OrderUseCase) Verify(ctx context.Context, paymentIntentID, email string, now time.Time) (*model.Order, error) {
	email = strings.TrimSpace(email)
	paymentIntentID = strings.TrimSpace(paymentIntentID)
	if email == "" {
		return nil, domainErrors.ErrMissingCustomer
	}

	if paymentIntentID != "" {
		order, err := u.orders.GetByPaymentIntent(ctx, paymentIntentID)
		switch {
		case err == nil:
			if strings.EqualFold(order.Customer.Email, email) {
				return order, nil
			}
		case !errors.Is(err, domainErrors.ErrNotFound):
			return nil, err
		}
	}

	return u.orders.FindRecentByEmail(ctx, email, now.Add(-u.lookback))
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/domain/model"
	"github.com/polkiloo/sourbakery/internal/domain/repository"
)

// PlaceOrderRequest is an admission attempt evaluated at Now. Prices and
// totals are always taken from the catalog, never from the caller.
type PlaceOrderRequest struct {
	Customer        model.Customer
	Lines           []model.CartLine
	PaymentIntentID string
	Now             time.Time
}

// AdmissionUseCase decides whether a cart becomes an order and commits it
// together with the inventory decrements.
type AdmissionUseCase struct {
	window   *OrderWindow
	ledger   *InventoryLedger
	products repository.ProductRepository
	orders   repository.OrderRepository
	events   OrderEvents
	logger   *slog.Logger
	clock    Clock
	newID    func() string
}

// NewAdmissionUseCase constructs AdmissionUseCase.
func NewAdmissionUseCase(
	window *OrderWindow,
	ledger *InventoryLedger,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	events OrderEvents,
	logger *slog.Logger,
) *AdmissionUseCase {
	return &AdmissionUseCase{
		window:   window,
		ledger:   ledger,
		products: products,
		orders:   orders,
		events:   events,
		logger:   logger,
		clock:    time.Now,
		newID:    uuid.NewString,
	}
}

// PlaceOrder admits the cart or returns the first reason it cannot be
// admitted. created is false when the payment intent already has an order.
func (u *AdmissionUseCase) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*model.Order, bool, error) {
	if !u.window.IsOpen(req.Now) {
		return nil, false, domainErrors.ErrWindowClosed
	}

	customer, err := NormalizeCustomer(req.Customer)
	if err != nil {
		return nil, false, err
	}

	lines, err := AggregateLines(req.Lines)
	if err != nil {
		return nil, false, err
	}

	items, reservations, err := quoteCart(ctx, u.products, u.ledger, lines)
	if err != nil {
		return nil, false, err
	}

	now := u.clock()
	order := &model.Order{
		ID:              u.newID(),
		Customer:        customer,
		Items:           items,
		Total:           model.SumItems(items),
		Status:          model.OrderStatusPending,
		PaymentIntentID: req.PaymentIntentID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	stored, created, err := u.orders.Commit(ctx, order, reservations)
	if err != nil {
		return nil, false, err
	}

	if !created {
		u.logger.Info("order already recorded for payment",
			slog.String("order_id", stored.ID),
			slog.String("payment_intent_id", req.PaymentIntentID))
		return stored, false, nil
	}

	u.logger.Info("order placed",
		slog.String("order_id", stored.ID),
		slog.String("payment_intent_id", stored.PaymentIntentID),
		slog.String("total", model.FormatPrice(stored.Total)),
		slog.Int("items", len(stored.Items)))

	if err := u.events.OrderPlaced(ctx, *stored); err != nil {
		u.logger.Warn("publish order placed event failed",
			slog.String("order_id", stored.ID),
			slog.Any("error", err))
	}

	return stored, true, nil
}

// quoteCart snapshots catalog prices and runs the ledger check for each line
// in cart order, stopping at the first failure.
func quoteCart(ctx context.Context, products repository.ProductRepository, ledger *InventoryLedger, lines []model.CartLine) ([]model.OrderItem, []model.Reservation, error) {
	catalog, err := products.GetMany(ctx, productIDs(lines))
	if err != nil {
		return nil, nil, err
	}

	items := make([]model.OrderItem, 0, len(lines))
	reservations := make([]model.Reservation, 0, len(lines))
	for _, line := range lines {
		product, ok := catalog[line.ProductID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", domainErrors.ErrProductNotFound, line.ProductID)
		}
		reservation, err := ledger.TryReserve(product, line.Quantity)
		if err != nil {
			return nil, nil, err
		}
		reservations = append(reservations, reservation)
		items = append(items, model.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Price:       product.Price,
		})
	}
	return items, reservations, nil
}

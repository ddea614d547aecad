package usecase

import (
	"context"
	"errors"
	"log/slog"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/domain/model"
	"github.com/polkiloo/sourbakery/internal/domain/repository"
)

// InventoryLedger owns the weekly remaining counters of capped products.
type InventoryLedger struct {
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewInventoryLedger constructs InventoryLedger.
func NewInventoryLedger(products repository.ProductRepository, logger *slog.Logger) *InventoryLedger {
	return &InventoryLedger{products: products, logger: logger}
}

// Remaining returns the cap and remaining count of a product. Both are nil for
// uncapped products.
func (l *InventoryLedger) Remaining(ctx context.Context, productID string) (weeklyCap *int, remaining *int, err error) {
	product, err := l.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, nil, domainErrors.ErrProductNotFound
		}
		return nil, nil, err
	}
	if !product.Capped() {
		return nil, nil, nil
	}
	value := product.WeeklyRemaining
	return product.WeeklyCap, &value, nil
}

// TryReserve checks quantity against a product snapshot. Nothing is persisted:
// the returned reservation is applied by OrderRepository.Commit.
func (l *InventoryLedger) TryReserve(product model.Product, quantity int) (model.Reservation, error) {
	if quantity <= 0 {
		return model.Reservation{}, domainErrors.ErrInvalidQuantity
	}
	reservation := model.Reservation{ProductID: product.ID, ProductName: product.Name, Quantity: quantity}
	if !product.Capped() {
		return reservation, nil
	}
	if quantity > product.WeeklyRemaining {
		return model.Reservation{}, &domainErrors.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.WeeklyRemaining,
		}
	}
	left := product.WeeklyRemaining - quantity
	reservation.NewRemaining = &left
	return reservation, nil
}

// ResetAll restores remaining to cap for every capped product.
func (l *InventoryLedger) ResetAll(ctx context.Context) (int64, error) {
	affected, err := l.products.ResetRemaining(ctx)
	if err != nil {
		return 0, err
	}
	l.logger.Info("weekly inventory reset", slog.Int64("products", affected))
	return affected, nil
}

// SetRemaining overwrites the remaining count of a capped product.
func (l *InventoryLedger) SetRemaining(ctx context.Context, productID string, value int) error {
	if value < 0 {
		return domainErrors.ErrInvalidAmount
	}
	product, err := l.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrProductNotFound
		}
		return err
	}
	if !product.Capped() {
		return domainErrors.ErrUncapped
	}
	if value > *product.WeeklyCap {
		return domainErrors.ErrExceedsCap
	}
	if err := l.products.SetRemaining(ctx, productID, value); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrProductNotFound
		}
		return err
	}
	l.logger.Info("weekly remaining adjusted", slog.String("product_id", productID), slog.Int("remaining", value))
	return nil
}

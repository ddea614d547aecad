package repository

import (
	"context"
	"time"

	"github.com/polkiloo/sourbakery/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Commit stores the order and applies every reservation in one atomic unit.
	// A reservation that no longer fits the stored remaining count aborts the
	// whole commit with *errors.InsufficientStockError. When the order carries a
	// payment intent that is already recorded, the existing order is returned
	// and created is false.
	Commit(ctx context.Context, order *model.Order, reservations []model.Reservation) (stored *model.Order, created bool, err error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*model.Order, error)
	List(ctx context.Context, status *model.OrderStatus) ([]model.Order, error)
	// UpdateStatus moves the order from one status to another. It fails with
	// errors.ErrInvalidTransition if the stored status no longer equals from.
	UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) error
	FindRecentByEmail(ctx context.Context, email string, since time.Time) (*model.Order, error)
}

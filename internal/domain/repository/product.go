package repository

import (
	"context"

	"github.com/polkiloo/sourbakery/internal/domain/model"
)

// ProductRepository describes catalog persistence and the weekly counters.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	GetMany(ctx context.Context, ids []string) (map[string]model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	// Update replaces the editable fields in one statement. Remaining becomes 0
	// when the cap is removed, input.WeeklyRemaining when provided, the cap for
	// a newly capped product, and otherwise min(current, cap).
	Update(ctx context.Context, id string, input model.ProductInput) (*model.Product, error)
	Delete(ctx context.Context, id string) (*model.Product, error)
	SetImage(ctx context.Context, id, ref string) (previous string, err error)
	// SetRemaining overwrites the weekly remaining count of a capped product
	// provided 0 <= value <= cap.
	SetRemaining(ctx context.Context, id string, value int) error
	// ResetRemaining sets remaining to cap for every capped product.
	ResetRemaining(ctx context.Context) (int64, error)
}

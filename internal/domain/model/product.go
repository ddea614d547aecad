package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry with an optional weekly sales cap.
type Product struct {
	ID              string
	Name            string
	Description     string
	Price           decimal.Decimal
	Image           string
	WeeklyCap       *int
	WeeklyRemaining int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Capped reports whether the product has a weekly cap.
func (p Product) Capped() bool {
	return p.WeeklyCap != nil
}

// ProductInput carries admin-provided product fields.
type ProductInput struct {
	Name            string
	Description     string
	Price           decimal.Decimal
	WeeklyCap       *int
	WeeklyRemaining *int
}

// Reservation is the outcome of a successful stock check for one product.
// NewRemaining is nil for uncapped products.
type Reservation struct {
	ProductID    string
	ProductName  string
	Quantity     int
	NewRemaining *int
}

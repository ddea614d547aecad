package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes order lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:   {OrderStatusConfirmed: true, OrderStatusCompleted: true, OrderStatusCancelled: true},
	OrderStatusConfirmed: {OrderStatusCompleted: true, OrderStatusCancelled: true},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// Valid reports whether status is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	_, ok := validNext[s]
	return ok
}

// CanTransition reports whether an order may move from one status to another.
// Setting the current status again is allowed and treated as a no-op.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return from.Valid()
	}
	return validNext[from][to]
}

// Customer holds free-text contact details captured at checkout.
type Customer struct {
	Name  string
	Email string
	Phone string
}

// CartLine is a requested product quantity before admission.
type CartLine struct {
	ProductID string
	Quantity  int
}

// OrderItem is a denormalized snapshot of a product at order time.
type OrderItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

// LineTotal returns price multiplied by quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a committed customer order.
type Order struct {
	ID              string
	Customer        Customer
	Items           []OrderItem
	Total           decimal.Decimal
	Status          OrderStatus
	PaymentIntentID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SumItems computes the order total from item snapshots.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

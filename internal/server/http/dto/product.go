package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest carries admin edits. Price accepts a number or a string.
type ProductRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	WeeklyCap       *int            `json:"weeklyCap"`
	WeeklyRemaining *int            `json:"weeklyRemaining"`
}

type ProductResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	PriceFormatted  string    `json:"priceFormatted"`
	Image           string    `json:"image,omitempty"`
	WeeklyCap       *int      `json:"weeklyCap"`
	WeeklyRemaining *int      `json:"weeklyRemaining"`
	SoldOut         bool      `json:"soldOut"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type RemainingRequest struct {
	Value *int `json:"value"`
}

type ResetResponse struct {
	Reset int64 `json:"reset"`
}

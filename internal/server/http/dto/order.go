package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a cart line sent by the storefront. Name and price are
// informational; the catalog is authoritative.
type CartItem struct {
	ProductID   string           `json:"productId"`
	ProductName string           `json:"productName,omitempty"`
	Quantity    int              `json:"quantity"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

type PlaceOrderRequest struct {
	CustomerName  string           `json:"customerName"`
	CustomerEmail string           `json:"customerEmail"`
	CustomerPhone string           `json:"customerPhone"`
	Items         []CartItem       `json:"items"`
	Total         *decimal.Decimal `json:"total,omitempty"`
}

type PlaceOrderResponse struct {
	OrderID string  `json:"orderId"`
	Total   float64 `json:"total"`
}

type CheckoutResponse struct {
	ClientSecret    string  `json:"clientSecret"`
	PaymentIntentID string  `json:"paymentIntentId"`
	Amount          float64 `json:"amount"`
}

type VerifyRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
	CustomerEmail   string `json:"customerEmail"`
}

type VerifyResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId,omitempty"`
	Message string `json:"message"`
}

type OrderItemResponse struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	CustomerName    string              `json:"customerName"`
	CustomerEmail   string              `json:"customerEmail"`
	CustomerPhone   string              `json:"customerPhone"`
	Items           []OrderItemResponse `json:"items"`
	Total           float64             `json:"total"`
	Status          string              `json:"status"`
	PaymentIntentID string              `json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type WindowResponse struct {
	Open        bool       `json:"open"`
	Message     string     `json:"message"`
	NextOpening *time.Time `json:"nextOpening,omitempty"`
}

type WebhookResponse struct {
	Received  bool   `json:"received"`
	OrderID   string `json:"orderId,omitempty"`
	Escalated bool   `json:"escalated,omitempty"`
}

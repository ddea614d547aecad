package handlers

import (
	"context"

	"github.com/polkiloo/sourbakery/internal/domain/model"
	"github.com/polkiloo/sourbakery/internal/usecase"
)

// AuthFacade describes admin authentication required by handlers.
type AuthFacade interface {
	Login(ctx context.Context, email, password string) (string, error)
	ParsePrincipal(token string) (model.Principal, error)
}

// CatalogFacade covers product browsing and admin catalog edits.
type CatalogFacade interface {
	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, input model.ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, input model.ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AttachProductImage(ctx context.Context, id, filename string, data []byte) (*model.Product, error)
	ResetWeekly(ctx context.Context) (int64, error)
	SetRemaining(ctx context.Context, id string, value int) error
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	OrderWindow() usecase.WindowStatus
	PlaceOrder(ctx context.Context, customer model.Customer, lines []model.CartLine) (*model.Order, error)
	CreatePaymentIntent(ctx context.Context, customer model.Customer, lines []model.CartLine) (*usecase.CheckoutResult, error)
	VerifyOrder(ctx context.Context, paymentIntentID, email string) (*model.Order, error)
	Orders(ctx context.Context, status *model.OrderStatus) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
}

// PaymentFacade accepts payment processor webhooks.
type PaymentFacade interface {
	HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) (usecase.WebhookResult, error)
}

// HealthFacade reports dependency health.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// BakeryFacade aggregates the full set of operations used across handlers.
type BakeryFacade interface {
	AuthFacade
	CatalogFacade
	OrderFacade
	PaymentFacade
	HealthFacade
}

package app

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/sourbakery/internal/domain/model"
	"github.com/polkiloo/sourbakery/internal/usecase"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// BakeryFacade exposes use cases to transports with the wall clock applied.
type BakeryFacade struct {
	window     *usecase.OrderWindow
	ledger     *usecase.InventoryLedger
	admission  *usecase.AdmissionUseCase
	checkout   *usecase.CheckoutUseCase
	reconciler *usecase.PaymentReconciler
	catalog    *usecase.CatalogUseCase
	orders     *usecase.OrderUseCase
	auth       *usecase.AuthUseCase
	health     HealthChecker
	clock      usecase.Clock
}

type facadeParams struct {
	fx.In

	Window     *usecase.OrderWindow
	Ledger     *usecase.InventoryLedger
	Admission  *usecase.AdmissionUseCase
	Checkout   *usecase.CheckoutUseCase
	Reconciler *usecase.PaymentReconciler
	Catalog    *usecase.CatalogUseCase
	Orders     *usecase.OrderUseCase
	Auth       *usecase.AuthUseCase
	Health     HealthChecker
}

func newBakeryFacade(p facadeParams) *BakeryFacade {
	return &BakeryFacade{
		window:     p.Window,
		ledger:     p.Ledger,
		admission:  p.Admission,
		checkout:   p.Checkout,
		reconciler: p.Reconciler,
		catalog:    p.Catalog,
		orders:     p.Orders,
		auth:       p.Auth,
		health:     p.Health,
		clock:      time.Now,
	}
}

func (f *BakeryFacade) Products(ctx context.Context) ([]model.Product, error) {
	return f.catalog.List(ctx)
}

func (f *BakeryFacade) Product(ctx context.Context, id string) (*model.Product, error) {
	return f.catalog.Get(ctx, id)
}

func (f *BakeryFacade) CreateProduct(ctx context.Context, input model.ProductInput) (*model.Product, error) {
	return f.catalog.Create(ctx, input)
}

func (f *BakeryFacade) UpdateProduct(ctx context.Context, id string, input model.ProductInput) (*model.Product, error) {
	return f.catalog.Update(ctx, id, input)
}

func (f *BakeryFacade) DeleteProduct(ctx context.Context, id string) error {
	return f.catalog.Delete(ctx, id)
}

func (f *BakeryFacade) AttachProductImage(ctx context.Context, id, filename string, data []byte) (*model.Product, error) {
	return f.catalog.AttachImage(ctx, id, filename, data)
}

func (f *BakeryFacade) ResetWeekly(ctx context.Context) (int64, error) {
	return f.ledger.ResetAll(ctx)
}

func (f *BakeryFacade) SetRemaining(ctx context.Context, id string, value int) error {
	return f.ledger.SetRemaining(ctx, id, value)
}

func (f *BakeryFacade) OrderWindow() usecase.WindowStatus {
	return f.window.Status(f.clock())
}

func (f *BakeryFacade) PlaceOrder(ctx context.Context, customer model.Customer, lines []model.CartLine) (*model.Order, error) {
	order, _, err := f.admission.PlaceOrder(ctx, usecase.PlaceOrderRequest{
		Customer: customer,
		Lines:    lines,
		Now:      f.clock(),
	})
	return order, err
}

func (f *BakeryFacade) CreatePaymentIntent(ctx context.Context, customer model.Customer, lines []model.CartLine) (*usecase.CheckoutResult, error) {
	return f.checkout.CreatePaymentIntent(ctx, usecase.CheckoutRequest{
		Customer: customer,
		Lines:    lines,
		Now:      f.clock(),
	})
}

func (f *BakeryFacade) VerifyOrder(ctx context.Context, paymentIntentID, email string) (*model.Order, error) {
	return f.orders.Verify(ctx, paymentIntentID, email, f.clock())
}

func (f *BakeryFacade) Orders(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	return f.orders.List(ctx, status)
}

func (f *BakeryFacade) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, id, status)
}

func (f *BakeryFacade) HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) (usecase.WebhookResult, error) {
	return f.reconciler.HandleWebhook(ctx, payload, signature)
}

func (f *BakeryFacade) Login(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *BakeryFacade) ParsePrincipal(token string) (model.Principal, error) {
	return f.auth.ParsePrincipal(token)
}

func (f *BakeryFacade) AddAdmin(ctx context.Context, email, password string) (*model.Admin, error) {
	return f.auth.AddAdmin(ctx, email, password)
}

func (f *BakeryFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

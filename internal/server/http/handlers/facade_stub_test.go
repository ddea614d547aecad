package handlers

import (
	"context"

	"github.com/polkiloo/sourbakery/internal/domain/model"
	pkgAuth "github.com/polkiloo/sourbakery/internal/pkg/auth"
	"github.com/polkiloo/sourbakery/internal/usecase"
)

// facadeStub implements BakeryFacade with overridable behaviour. Unset
// functions return zero values.
type facadeStub struct {
	LoginFn          func(context.Context, string, string) (string, error)
	ParsePrincipalFn func(string) (model.Principal, error)

	ProductsFn      func(context.Context) ([]model.Product, error)
	ProductFn       func(context.Context, string) (*model.Product, error)
	CreateProductFn func(context.Context, model.ProductInput) (*model.Product, error)
	UpdateProductFn func(context.Context, string, model.ProductInput) (*model.Product, error)
	DeleteProductFn func(context.Context, string) error
	AttachImageFn   func(context.Context, string, string, []byte) (*model.Product, error)
	ResetWeeklyFn   func(context.Context) (int64, error)
	SetRemainingFn  func(context.Context, string, int) error

	Window          usecase.WindowStatus
	PlaceOrderFn    func(context.Context, model.Customer, []model.CartLine) (*model.Order, error)
	PaymentIntentFn func(context.Context, model.Customer, []model.CartLine) (*usecase.CheckoutResult, error)
	VerifyOrderFn   func(context.Context, string, string) (*model.Order, error)
	OrdersFn        func(context.Context, *model.OrderStatus) ([]model.Order, error)
	UpdateStatusFn  func(context.Context, string, model.OrderStatus) (*model.Order, error)
	WebhookFn       func(context.Context, []byte, string) (usecase.WebhookResult, error)
	HealthCheckErr  error
}

func (f facadeStub) Login(ctx context.Context, email, password string) (string, error) {
	if f.LoginFn != nil {
		return f.LoginFn(ctx, email, password)
	}
	return "token:" + email, nil
}

func (f facadeStub) ParsePrincipal(token string) (model.Principal, error) {
	if f.ParsePrincipalFn != nil {
		return f.ParsePrincipalFn(token)
	}
	if token == "" {
		return model.Principal{}, pkgAuth.ErrInvalidToken
	}
	return model.Principal{Email: "owner@bakery.test", IsAdmin: true}, nil
}

func (f facadeStub) Products(ctx context.Context) ([]model.Product, error) {
	if f.ProductsFn != nil {
		return f.ProductsFn(ctx)
	}
	return nil, nil
}

func (f facadeStub) Product(ctx context.Context, id string) (*model.Product, error) {
	if f.ProductFn != nil {
		return f.ProductFn(ctx, id)
	}
	return &model.Product{ID: id}, nil
}

func (f facadeStub) CreateProduct(ctx context.Context, input model.ProductInput) (*model.Product, error) {
	if f.CreateProductFn != nil {
		return f.CreateProductFn(ctx, input)
	}
	return &model.Product{ID: "p-new", Name: input.Name, Price: input.Price}, nil
}

func (f facadeStub) UpdateProduct(ctx context.Context, id string, input model.ProductInput) (*model.Product, error) {
	if f.UpdateProductFn != nil {
		return f.UpdateProductFn(ctx, id, input)
	}
	return &model.Product{ID: id, Name: input.Name, Price: input.Price}, nil
}

func (f facadeStub) DeleteProduct(ctx context.Context, id string) error {
	if f.DeleteProductFn != nil {
		return f.DeleteProductFn(ctx, id)
	}
	return nil
}

func (f facadeStub) AttachProductImage(ctx context.Context, id, filename string, data []byte) (*model.Product, error) {
	if f.AttachImageFn != nil {
		return f.AttachImageFn(ctx, id, filename, data)
	}
	return &model.Product{ID: id, Image: filename}, nil
}

func (f facadeStub) ResetWeekly(ctx context.Context) (int64, error) {
	if f.ResetWeeklyFn != nil {
		return f.ResetWeeklyFn(ctx)
	}
	return 0, nil
}

func (f facadeStub) SetRemaining(ctx context.Context, id string, value int) error {
	if f.SetRemainingFn != nil {
		return f.SetRemainingFn(ctx, id, value)
	}
	return nil
}

func (f facadeStub) OrderWindow() usecase.WindowStatus {
	return f.Window
}

func (f facadeStub) PlaceOrder(ctx context.Context, customer model.Customer, lines []model.CartLine) (*model.Order, error) {
	if f.PlaceOrderFn != nil {
		return f.PlaceOrderFn(ctx, customer, lines)
	}
	return &model.Order{ID: "o-1", Customer: customer}, nil
}

func (f facadeStub) CreatePaymentIntent(ctx context.Context, customer model.Customer, lines []model.CartLine) (*usecase.CheckoutResult, error) {
	if f.PaymentIntentFn != nil {
		return f.PaymentIntentFn(ctx, customer, lines)
	}
	return &usecase.CheckoutResult{PaymentIntentID: "pi_1", ClientSecret: "pi_1_secret"}, nil
}

func (f facadeStub) VerifyOrder(ctx context.Context, paymentIntentID, email string) (*model.Order, error) {
	if f.VerifyOrderFn != nil {
		return f.VerifyOrderFn(ctx, paymentIntentID, email)
	}
	return &model.Order{ID: "o-1", PaymentIntentID: paymentIntentID}, nil
}

func (f facadeStub) Orders(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	if f.OrdersFn != nil {
		return f.OrdersFn(ctx, status)
	}
	return nil, nil
}

func (f facadeStub) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if f.UpdateStatusFn != nil {
		return f.UpdateStatusFn(ctx, id, status)
	}
	return &model.Order{ID: id, Status: status}, nil
}

func (f facadeStub) HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) (usecase.WebhookResult, error) {
	if f.WebhookFn != nil {
		return f.WebhookFn(ctx, payload, signature)
	}
	return usecase.WebhookResult{}, nil
}

func (f facadeStub) HealthCheck(context.Context) error {
	return f.HealthCheckErr
}

var _ BakeryFacade = facadeStub{}

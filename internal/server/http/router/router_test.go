package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/sourbakery/internal/config"
	"github.com/polkiloo/sourbakery/internal/domain/model"
	pkgAuth "github.com/polkiloo/sourbakery/internal/pkg/auth"
	"github.com/polkiloo/sourbakery/internal/server/http/handlers"
	testhelpers "github.com/polkiloo/sourbakery/internal/test"
	"github.com/polkiloo/sourbakery/internal/usecase"
)

// bakeryStub answers every call with an empty success, except for the
// token parser which only accepts "admin" and "customer".
type bakeryStub struct {
	webhookBody []byte
}

func (b *bakeryStub) Login(context.Context, string, string) (string, error) { return "admin", nil }
func (b *bakeryStub) ParsePrincipal(token string) (model.Principal, error) {
	switch token {
	case "admin":
		return model.Principal{Email: "owner@bakery.test", IsAdmin: true}, nil
	case "customer":
		return model.Principal{Email: "someone@example.com"}, nil
	}
	return model.Principal{}, pkgAuth.ErrInvalidToken
}
func (b *bakeryStub) Products(context.Context) ([]model.Product, error) {
	return []model.Product{{ID: "p1", Name: "Loaf"}}, nil
}
func (b *bakeryStub) Product(_ context.Context, id string) (*model.Product, error) {
	return &model.Product{ID: id}, nil
}
func (b *bakeryStub) CreateProduct(context.Context, model.ProductInput) (*model.Product, error) {
	return &model.Product{ID: "p2"}, nil
}
func (b *bakeryStub) UpdateProduct(_ context.Context, id string, _ model.ProductInput) (*model.Product, error) {
	return &model.Product{ID: id}, nil
}
func (b *bakeryStub) DeleteProduct(context.Context, string) error { return nil }
func (b *bakeryStub) AttachProductImage(_ context.Context, id, _ string, _ []byte) (*model.Product, error) {
	return &model.Product{ID: id}, nil
}
func (b *bakeryStub) ResetWeekly(context.Context) (int64, error)      { return 2, nil }
func (b *bakeryStub) SetRemaining(context.Context, string, int) error { return nil }
func (b *bakeryStub) OrderWindow() usecase.WindowStatus               { return usecase.WindowStatus{Open: true} }
func (b *bakeryStub) PlaceOrder(context.Context, model.Customer, []model.CartLine) (*model.Order, error) {
	return &model.Order{ID: "o-1"}, nil
}
func (b *bakeryStub) CreatePaymentIntent(context.Context, model.Customer, []model.CartLine) (*usecase.CheckoutResult, error) {
	return &usecase.CheckoutResult{PaymentIntentID: "pi_1"}, nil
}
func (b *bakeryStub) VerifyOrder(context.Context, string, string) (*model.Order, error) {
	return &model.Order{ID: "o-1"}, nil
}
func (b *bakeryStub) Orders(context.Context, *model.OrderStatus) ([]model.Order, error) {
	return []model.Order{}, nil
}
func (b *bakeryStub) UpdateOrderStatus(_ context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	return &model.Order{ID: id, Status: status}, nil
}
func (b *bakeryStub) HandlePaymentWebhook(_ context.Context, payload []byte, _ string) (usecase.WebhookResult, error) {
	b.webhookBody = payload
	return usecase.WebhookResult{OrderID: "o-1"}, nil
}
func (b *bakeryStub) HealthCheck(context.Context) error { return nil }

var _ handlers.BakeryFacade = (*bakeryStub)(nil)

func newTestEngine(t *testing.T) (*gin.Engine, *bakeryStub, string) {
	t.Helper()
	dir := t.TempDir()
	stub := &bakeryStub{}
	cfg := &config.Config{BlobDir: dir, BlobBaseURL: "/images"}
	return Setup(stub, cfg, testhelpers.DiscardLogger()), stub, dir
}

func serve(engine *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestSetupPublicRoutes(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	cases := []struct {
		method, path string
		body         string
		want         int
	}{
		{http.MethodGet, "/api/products", "", http.StatusOK},
		{http.MethodGet, "/api/products/p1", "", http.StatusOK},
		{http.MethodGet, "/api/order-window", "", http.StatusOK},
		{http.MethodPost, "/api/checkout/payment-intent", `{"items":[]}`, http.StatusOK},
		{http.MethodPost, "/api/orders/verify", `{"paymentIntentId":"pi_1","customerEmail":"a@b.c"}`, http.StatusOK},
		{http.MethodPost, "/api/admin/login", `{"email":"owner@bakery.test","password":"pw"}`, http.StatusOK},
		{http.MethodGet, "/healthz", "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp := serve(engine, tc.method, tc.path, "", []byte(tc.body))
			assert.Equal(t, tc.want, resp.Code)
		})
	}
}

func TestSetupAdminRoutesRequireAdmin(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/admin/orders", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/admin/orders", "forged", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/admin/orders", "customer", nil).Code)

	// Direct orders are admin-only.
	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodPost, "/api/admin/orders", "", []byte(`{"items":[]}`)).Code)
	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodPost, "/api/admin/orders", "customer", []byte(`{"items":[]}`)).Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodPost, "/api/orders", "", []byte(`{"items":[]}`)).Code)

	cases := []struct {
		method, path string
		body         string
		want         int
	}{
		{http.MethodGet, "/api/admin/orders", "", http.StatusOK},
		{http.MethodPost, "/api/admin/orders", `{"items":[]}`, http.StatusCreated},
		{http.MethodGet, "/api/admin/products", "", http.StatusOK},
		{http.MethodPost, "/api/admin/products", `{"name":"Rye","price":5}`, http.StatusCreated},
		{http.MethodPut, "/api/admin/products/p1", `{"name":"Rye","price":5}`, http.StatusOK},
		{http.MethodDelete, "/api/admin/products/p1", "", http.StatusNoContent},
		{http.MethodPut, "/api/admin/products/p1/remaining", `{"value":3}`, http.StatusOK},
		{http.MethodPost, "/api/admin/products/reset-weekly", "", http.StatusOK},
		{http.MethodPut, "/api/admin/orders/o-1/status", `{"status":"completed"}`, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp := serve(engine, tc.method, tc.path, "admin", []byte(tc.body))
			assert.Equal(t, tc.want, resp.Code)
		})
	}
}

func TestSetupWebhookReceivesRawBody(t *testing.T) {
	engine, stub, _ := newTestEngine(t)

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	req.Header.Set("Accept-Encoding", "gzip")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, payload, stub.webhookBody)
	assert.Empty(t, resp.Header().Get("Content-Encoding"))
}

func TestSetupServesImages(t *testing.T) {
	engine, _, dir := newTestEngine(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p1.png"), []byte("png"), 0o644))

	resp := serve(engine, http.MethodGet, "/images/p1.png", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "png", resp.Body.String())
}

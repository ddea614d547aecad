package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/domain/model"
	"github.com/polkiloo/sourbakery/internal/server/http/dto"
)

// OrderHandler handles storefront ordering and admin order management.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Window handles GET /api/order-window.
func (h *OrderHandler) Window(c *gin.Context) {
	status := h.facade.OrderWindow()

	resp := dto.WindowResponse{Open: status.Open, Message: status.Message}
	if !status.NextOpening.IsZero() {
		next := status.NextOpening
		resp.NextOpening = &next
	}
	c.JSON(http.StatusOK, resp)
}

// Place handles POST /api/admin/orders for orders paid outside the card flow.
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid order payload")
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), customerOf(req), toCartLines(req.Items))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.PlaceOrderResponse{OrderID: order.ID, Total: order.Total.InexactFloat64()})
}

// Checkout handles POST /api/checkout/payment-intent.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid checkout payload")
		return
	}

	result, err := h.facade.CreatePaymentIntent(c.Request.Context(), customerOf(req), toCartLines(req.Items))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CheckoutResponse{
		ClientSecret:    result.ClientSecret,
		PaymentIntentID: result.PaymentIntentID,
		Amount:          result.Amount.InexactFloat64(),
	})
}

// Verify handles POST /api/orders/verify, the storefront's post-payment
// lookup. The order is created by the webhook, so a miss only means it has
// not arrived yet.
func (h *OrderHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.PaymentIntentID) == "" || strings.TrimSpace(req.CustomerEmail) == "" {
		c.JSON(http.StatusBadRequest, dto.VerifyResponse{Message: "paymentIntentId and customerEmail are required"})
		return
	}

	order, err := h.facade.VerifyOrder(c.Request.Context(), req.PaymentIntentID, req.CustomerEmail)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.VerifyResponse{Success: true, OrderID: order.ID, Message: "order confirmed"})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.VerifyResponse{Message: "order not found"})
	default:
		writeError(c, err)
	}
}

// List handles GET /api/admin/orders with an optional ?status= filter.
func (h *OrderHandler) List(c *gin.Context) {
	var status *model.OrderStatus
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		s := model.OrderStatus(strings.ToLower(raw))
		status = &s
	}

	orders, err := h.facade.Orders(c.Request.Context(), status)
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// UpdateStatus handles PUT /api/admin/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid status payload")
		return
	}

	status := model.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

func customerOf(req dto.PlaceOrderRequest) model.Customer {
	return model.Customer{
		Name:  req.CustomerName,
		Email: req.CustomerEmail,
		Phone: req.CustomerPhone,
	}
}

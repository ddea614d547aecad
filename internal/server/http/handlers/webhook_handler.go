package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/server/http/dto"
)

const (
	signatureHeader = "Stripe-Signature"
	maxWebhookBody  = 1 << 20
)

// WebhookHandler receives payment processor deliveries.
type WebhookHandler struct {
	facade PaymentFacade
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade PaymentFacade) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// Handle processes POST /api/stripe/webhook. The raw body is passed through
// untouched because the signature covers the exact bytes. A non-2xx answer
// makes the processor redeliver, so only failures worth retrying get one.
func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		badRequest(c, "unreadable body")
		return
	}

	result, err := h.facade.HandlePaymentWebhook(c.Request.Context(), payload, c.GetHeader(signatureHeader))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.WebhookResponse{Received: true, OrderID: result.OrderID, Escalated: result.Escalated})
	case errors.Is(err, domainErrors.ErrEscalationFailed):
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "escalation failed", Code: "escalation_failed"})
	case errors.Is(err, domainErrors.ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error(), Code: "invalid_signature"})
	case errors.Is(err, domainErrors.ErrMalformedMetadata):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error(), Code: "malformed_metadata"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "webhook processing failed", Code: "internal"})
	}
}

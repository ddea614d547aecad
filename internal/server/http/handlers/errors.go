package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/server/http/dto"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domainErrors.ErrWindowClosed, http.StatusConflict, "window_closed"},
	{domainErrors.ErrMissingCustomer, http.StatusBadRequest, "missing_customer"},
	{domainErrors.ErrInvalidCustomer, http.StatusBadRequest, "invalid_customer"},
	{domainErrors.ErrEmptyCart, http.StatusBadRequest, "empty_cart"},
	{domainErrors.ErrInvalidQuantity, http.StatusUnprocessableEntity, "invalid_quantity"},
	{domainErrors.ErrProductNotFound, http.StatusUnprocessableEntity, "product_not_found"},
	{domainErrors.ErrInvalidProduct, http.StatusUnprocessableEntity, "invalid_product"},
	{domainErrors.ErrInvalidAmount, http.StatusUnprocessableEntity, "invalid_amount"},
	{domainErrors.ErrExceedsCap, http.StatusUnprocessableEntity, "exceeds_cap"},
	{domainErrors.ErrUncapped, http.StatusUnprocessableEntity, "uncapped"},
	{domainErrors.ErrInvalidImage, http.StatusUnprocessableEntity, "invalid_image"},
	{domainErrors.ErrInvalidStatus, http.StatusUnprocessableEntity, "invalid_status"},
	{domainErrors.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{domainErrors.ErrAlreadyExists, http.StatusConflict, "already_exists"},
	{domainErrors.ErrNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{domainErrors.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domainErrors.ErrPaymentUnavailable, http.StatusBadGateway, "payment_unavailable"},
	{domainErrors.ErrStorageUnavailable, http.StatusServiceUnavailable, "storage_unavailable"},
}

// writeError maps a domain error to its HTTP status and JSON body.
func writeError(c *gin.Context, err error) {
	var stock *domainErrors.InsufficientStockError
	if errors.As(err, &stock) {
		available := stock.Available
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:       stock.Error(),
			Code:        "insufficient_stock",
			ProductName: stock.ProductName,
			Available:   &available,
		})
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			c.JSON(m.status, dto.ErrorResponse{Error: err.Error(), Code: m.code})
			return
		}
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error", Code: "internal"})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: message, Code: "bad_request"})
}

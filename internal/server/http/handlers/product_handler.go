package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/server/http/dto"
	"github.com/polkiloo/sourbakery/internal/usecase"
)

// multipart overhead allowed on top of the image itself
const uploadSlack = 1 << 20

// ProductHandler serves the catalog and the admin inventory controls.
type ProductHandler struct {
	facade       CatalogFacade
	imageBaseURL string
}

// NewProductHandler constructs ProductHandler. Image references are rendered
// below imageBaseURL.
func NewProductHandler(facade CatalogFacade, imageBaseURL string) *ProductHandler {
	return &ProductHandler{facade: facade, imageBaseURL: imageBaseURL}
}

// List handles GET /api/products and its admin twin.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.facade.Products(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		response = append(response, toProductResponse(p, h.imageBaseURL))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.facade.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product, h.imageBaseURL))
}

// Create handles POST /api/admin/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid product payload")
		return
	}

	product, err := h.facade.CreateProduct(c.Request.Context(), toProductInput(req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(*product, h.imageBaseURL))
}

// Update handles PUT /api/admin/products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid product payload")
		return
	}

	product, err := h.facade.UpdateProduct(c.Request.Context(), c.Param("id"), toProductInput(req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product, h.imageBaseURL))
}

// Delete handles DELETE /api/admin/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.facade.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage handles POST /api/admin/products/:id/image with a multipart
// "image" field.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, usecase.MaxImageSize+uploadSlack)

	header, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "multipart field \"image\" is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		badRequest(c, "unreadable image")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, usecase.MaxImageSize+1))
	if err != nil {
		badRequest(c, "unreadable image")
		return
	}

	product, err := h.facade.AttachProductImage(c.Request.Context(), c.Param("id"), header.Filename, data)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product, h.imageBaseURL))
}

// ResetWeekly handles POST /api/admin/products/reset-weekly.
func (h *ProductHandler) ResetWeekly(c *gin.Context) {
	affected, err := h.facade.ResetWeekly(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ResetResponse{Reset: affected})
}

// SetRemaining handles PUT /api/admin/products/:id/remaining.
func (h *ProductHandler) SetRemaining(c *gin.Context) {
	var req dto.RemainingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Value == nil {
		badRequest(c, "value is required")
		return
	}

	id := c.Param("id")
	if err := h.facade.SetRemaining(c.Request.Context(), id, *req.Value); err != nil {
		h.writeError(c, err)
		return
	}

	product, err := h.facade.Product(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product, h.imageBaseURL))
}

// A missing product on its own resource is a 404, unlike in a cart.
func (h *ProductHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, domainErrors.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error(), Code: "product_not_found"})
		return
	}
	writeError(c, err)
}

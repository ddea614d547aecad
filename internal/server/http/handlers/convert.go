package handlers

import (
	"strings"

	"github.com/polkiloo/sourbakery/internal/domain/model"
	"github.com/polkiloo/sourbakery/internal/server/http/dto"
)

func toProductResponse(p model.Product, imageBaseURL string) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price.InexactFloat64(),
		PriceFormatted: model.FormatPrice(p.Price),
		WeeklyCap:      p.WeeklyCap,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.Image != "" {
		resp.Image = strings.TrimSuffix(imageBaseURL, "/") + "/" + p.Image
	}
	if p.Capped() {
		remaining := p.WeeklyRemaining
		resp.WeeklyRemaining = &remaining
		resp.SoldOut = remaining == 0
	}
	return resp
}

func toOrderResponse(o model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price.InexactFloat64(),
		})
	}
	return dto.OrderResponse{
		ID:              o.ID,
		CustomerName:    o.Customer.Name,
		CustomerEmail:   o.Customer.Email,
		CustomerPhone:   o.Customer.Phone,
		Items:           items,
		Total:           o.Total.InexactFloat64(),
		Status:          string(o.Status),
		PaymentIntentID: o.PaymentIntentID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toCartLines(items []dto.CartItem) []model.CartLine {
	lines := make([]model.CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, model.CartLine{ProductID: strings.TrimSpace(item.ProductID), Quantity: item.Quantity})
	}
	return lines
}

func toProductInput(req dto.ProductRequest) model.ProductInput {
	return model.ProductInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		WeeklyCap:       req.WeeklyCap,
		WeeklyRemaining: req.WeeklyRemaining,
	}
}

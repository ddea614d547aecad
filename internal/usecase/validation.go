package usecase

import (
	"strings"
	"unicode/utf8"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/domain/model"
)

// MaxContactLength bounds each customer contact field, in characters.
const MaxContactLength = 200

// NormalizeCustomer trims contact fields and requires all of them.
func NormalizeCustomer(c model.Customer) (model.Customer, error) {
	out := model.Customer{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
	}
	if out.Name == "" || out.Email == "" || out.Phone == "" {
		return model.Customer{}, domainErrors.ErrMissingCustomer
	}
	for _, field := range []string{out.Name, out.Email, out.Phone} {
		if utf8.RuneCountInString(field) > MaxContactLength {
			return model.Customer{}, domainErrors.ErrInvalidCustomer
		}
	}
	return out, nil
}

// AggregateLines validates a cart and merges repeated products, keeping the
// order in which each product first appeared.
func AggregateLines(lines []model.CartLine) ([]model.CartLine, error) {
	if len(lines) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}

	index := make(map[string]int, len(lines))
	out := make([]model.CartLine, 0, len(lines))
	for _, line := range lines {
		id := strings.TrimSpace(line.ProductID)
		if id == "" {
			return nil, domainErrors.ErrProductNotFound
		}
		if line.Quantity <= 0 {
			return nil, domainErrors.ErrInvalidQuantity
		}
		if i, ok := index[id]; ok {
			out[i].Quantity += line.Quantity
			continue
		}
		index[id] = len(out)
		out = append(out, model.CartLine{ProductID: id, Quantity: line.Quantity})
	}
	return out, nil
}

// productIDs lists the ids of aggregated lines.
func productIDs(lines []model.CartLine) []string {
	ids := make([]string, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}
	return ids
}

package usecase

import (
	"strings"
	"testing"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCustomer(t *testing.T) {
	customer, err := NormalizeCustomer(model.Customer{Name: " Ada ", Email: " ada@example.com", Phone: "555-0100 "})
	require.NoError(t, err)
	assert.Equal(t, model.Customer{Name: "Ada", Email: "ada@example.com", Phone: "555-0100"}, customer)

	invalid := []model.Customer{
		{Email: "ada@example.com", Phone: "555"},
		{Name: "Ada", Email: "  ", Phone: "555"},
		{Name: "Ada", Email: "ada@example.com"},
	}
	for _, c := range invalid {
		_, err := NormalizeCustomer(c)
		assert.ErrorIs(t, err, domainErrors.ErrMissingCustomer)
	}

	// Character count, not bytes: 200 two-byte runes still fit.
	accented := strings.Repeat("é", MaxContactLength)
	_, err = NormalizeCustomer(model.Customer{Name: accented, Email: "ada@example.com", Phone: "555"})
	require.NoError(t, err)

	_, err = NormalizeCustomer(model.Customer{Name: accented + "x", Email: "ada@example.com", Phone: "555"})
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCustomer)
}

func TestAggregateLines(t *testing.T) {
	lines, err := AggregateLines([]model.CartLine{
		{ProductID: "rye", Quantity: 1},
		{ProductID: "sourdough", Quantity: 2},
		{ProductID: " rye", Quantity: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{
		{ProductID: "rye", Quantity: 4},
		{ProductID: "sourdough", Quantity: 2},
	}, lines)
	assert.Equal(t, []string{"rye", "sourdough"}, productIDs(lines))
}

func TestAggregateLinesRejectsInvalidCarts(t *testing.T) {
	_, err := AggregateLines(nil)
	assert.ErrorIs(t, err, domainErrors.ErrEmptyCart)

	_, err = AggregateLines([]model.CartLine{{ProductID: "rye", Quantity: 1}, {ProductID: "bagel", Quantity: 0}})
	assert.ErrorIs(t, err, domainErrors.ErrInvalidQuantity)

	_, err = AggregateLines([]model.CartLine{{ProductID: "rye", Quantity: -2}})
	assert.ErrorIs(t, err, domainErrors.ErrInvalidQuantity)

	_, err = AggregateLines([]model.CartLine{{ProductID: "", Quantity: 1}})
	assert.ErrorIs(t, err, domainErrors.ErrProductNotFound)
}

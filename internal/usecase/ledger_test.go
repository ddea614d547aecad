package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/domain/model"
	testhelpers "github.com/polkiloo/sourbakery/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTryReserve(t *testing.T) {
	ledger := NewInventoryLedger(nil, testhelpers.DiscardLogger())
	capped := model.Product{ID: "p1", Name: "Country Loaf", WeeklyCap: testhelpers.IntPtr(5), WeeklyRemaining: 2}

	reservation, err := ledger.TryReserve(capped, 2)
	require.NoError(t, err)
	require.NotNil(t, reservation.NewRemaining)
	assert.Equal(t, 0, *reservation.NewRemaining)
	assert.Equal(t, 2, reservation.Quantity)

	_, err = ledger.TryReserve(capped, 3)
	var stock *domainErrors.InsufficientStockError
	require.ErrorAs(t, err, &stock)
	assert.Equal(t, 3, stock.Requested)
	assert.Equal(t, 2, stock.Available)
	assert.Equal(t, "Country Loaf", stock.ProductName)

	_, err = ledger.TryReserve(capped, 0)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidQuantity)

	uncapped := model.Product{ID: "p2", Name: "Baguette"}
	reservation, err = ledger.TryReserve(uncapped, 1000)
	require.NoError(t, err)
	assert.Nil(t, reservation.NewRemaining)
}

func TestLedgerRemaining(t *testing.T) {
	f := newFixture(t)
	f.seed("capped", "Rye", "6.00", testhelpers.IntPtr(4))
	f.seed("open", "Roll", "1.00", nil)
	ctx := context.Background()

	weeklyCap, remaining, err := f.ledger.Remaining(ctx, "capped")
	require.NoError(t, err)
	assert.Equal(t, 4, *weeklyCap)
	assert.Equal(t, 4, *remaining)

	weeklyCap, remaining, err = f.ledger.Remaining(ctx, "open")
	require.NoError(t, err)
	assert.Nil(t, weeklyCap)
	assert.Nil(t, remaining)

	_, _, err = f.ledger.Remaining(ctx, "missing")
	assert.ErrorIs(t, err, domainErrors.ErrProductNotFound)
}

func TestLedgerSetRemaining(t *testing.T) {
	f := newFixture(t)
	f.seed("capped", "Rye", "6.00", testhelpers.IntPtr(4))
	f.seed("open", "Roll", "1.00", nil)
	ctx := context.Background()

	require.NoError(t, f.ledger.SetRemaining(ctx, "capped", 1))
	assert.Equal(t, 1, f.remaining(t, "capped"))

	require.NoError(t, f.ledger.SetRemaining(ctx, "capped", 4))
	assert.Equal(t, 4, f.remaining(t, "capped"))

	assert.ErrorIs(t, f.ledger.SetRemaining(ctx, "capped", -1), domainErrors.ErrInvalidAmount)
	assert.ErrorIs(t, f.ledger.SetRemaining(ctx, "capped", 5), domainErrors.ErrExceedsCap)
	assert.ErrorIs(t, f.ledger.SetRemaining(ctx, "open", 1), domainErrors.ErrUncapped)
	assert.ErrorIs(t, f.ledger.SetRemaining(ctx, "missing", 1), domainErrors.ErrProductNotFound)
	assert.Equal(t, 4, f.remaining(t, "capped"))
}

func TestLedgerResetAll(t *testing.T) {
	f := newFixture(t)
	f.seed("a", "Rye", "6.00", testhelpers.IntPtr(4))
	f.seed("b", "Focaccia", "8.00", testhelpers.IntPtr(2))
	f.seed("c", "Roll", "1.00", nil)
	ctx := context.Background()

	require.NoError(t, f.ledger.SetRemaining(ctx, "a", 0))
	require.NoError(t, f.ledger.SetRemaining(ctx, "b", 1))

	affected, err := f.ledger.ResetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
	assert.Equal(t, 4, f.remaining(t, "a"))
	assert.Equal(t, 2, f.remaining(t, "b"))
	assert.Equal(t, 0, f.remaining(t, "c"))

	f.store.Err = errors.New("connection reset")
	_, err = f.ledger.ResetAll(ctx)
	assert.Error(t, err)
}

// Remaining stays within [0, cap] under any interleaving of reservations,
// manual adjustments and resets.
func TestLedgerRemainingStaysWithinCap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		store := testhelpers.NewMemoryStore()
		ledger := NewInventoryLedger(store.Products(), testhelpers.DiscardLogger())
		ctx := context.Background()

		weeklyCap := rapid.IntRange(0, 20).Draw(t, "cap")
		store.SeedProduct(model.Product{ID: "p", Name: "Loaf", WeeklyCap: &weeklyCap, WeeklyRemaining: weeklyCap})

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				qty := rapid.IntRange(-2, 25).Draw(t, "qty")
				product, _ := store.Product("p")
				reservation, err := ledger.TryReserve(product, qty)
				if err != nil {
					if !errors.Is(err, domainErrors.ErrInsufficientStock) && !errors.Is(err, domainErrors.ErrInvalidQuantity) {
						t.Fatalf("unexpected reserve error: %v", err)
					}
					continue
				}
				order := &model.Order{ID: rapid.StringMatching(`[a-z]{12}`).Draw(t, "id"), Status: model.OrderStatusPending}
				if _, _, err := store.Orders().Commit(ctx, order, []model.Reservation{reservation}); err != nil && !errors.Is(err, domainErrors.ErrInsufficientStock) {
					t.Fatalf("unexpected commit error: %v", err)
				}
			case 1:
				value := rapid.IntRange(-5, 25).Draw(t, "value")
				err := ledger.SetRemaining(ctx, "p", value)
				valid := value >= 0 && value <= weeklyCap
				if valid != (err == nil) {
					t.Fatalf("SetRemaining(%d) with cap %d returned %v", value, weeklyCap, err)
				}
			case 2:
				if _, err := ledger.ResetAll(ctx); err != nil {
					t.Fatalf("reset: %v", err)
				}
				if p, _ := store.Product("p"); p.WeeklyRemaining != weeklyCap {
					t.Fatalf("reset left remaining %d, cap %d", p.WeeklyRemaining, weeklyCap)
				}
			}

			p, _ := store.Product("p")
			if p.WeeklyRemaining < 0 || p.WeeklyRemaining > weeklyCap {
				t.Fatalf("remaining %d outside [0, %d]", p.WeeklyRemaining, weeklyCap)
			}
		}
	})
}

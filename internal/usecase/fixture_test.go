package usecase

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/polkiloo/sourbakery/internal/domain/model"
	testhelpers "github.com/polkiloo/sourbakery/internal/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store     *testhelpers.MemoryStore
	window    *OrderWindow
	ledger    *InventoryLedger
	admission *AdmissionUseCase
	events    *testhelpers.OrderEventsStub
	loc       *time.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc := newYork(t)
	store := testhelpers.NewMemoryStore()
	logger := testhelpers.DiscardLogger()
	window := NewOrderWindow(DefaultSchedule, loc)
	ledger := NewInventoryLedger(store.Products(), logger)
	events := &testhelpers.OrderEventsStub{}
	admission := NewAdmissionUseCase(window, ledger, store.Products(), store.Orders(), events, logger)

	var seq atomic.Int64
	admission.newID = func() string { return fmt.Sprintf("order-%d", seq.Add(1)) }

	return &fixture{store: store, window: window, ledger: ledger, admission: admission, events: events, loc: loc}
}

// openAt is a Tuesday morning, inside the default window.
func (f *fixture) openAt() time.Time {
	return time.Date(2024, 3, 5, 9, 0, 0, 0, f.loc)
}

// closedAt is a Friday morning, outside the default window.
func (f *fixture) closedAt() time.Time {
	return time.Date(2024, 3, 8, 9, 0, 0, 0, f.loc)
}

func (f *fixture) seed(id, name, price string, weeklyCap *int) {
	p := model.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), WeeklyCap: weeklyCap}
	if weeklyCap != nil {
		p.WeeklyRemaining = *weeklyCap
	}
	f.store.SeedProduct(p)
}

func (f *fixture) remaining(t *testing.T, id string) int {
	t.Helper()
	p, ok := f.store.Product(id)
	require.True(t, ok, "product %s missing", id)
	return p.WeeklyRemaining
}

func customer() model.Customer {
	return model.Customer{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "555-0100"}
}

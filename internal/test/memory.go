package test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/domain/model"
	"github.com/polkiloo/sourbakery/internal/domain/repository"
)

// MemoryStore is an in-memory repository set that applies reservations with
// the same conditional decrement semantics as the Postgres storage.
type MemoryStore struct {
	// Err, when set, is returned by every repository call.
	Err error

	mu       sync.Mutex
	seq      int
	products map[string]*model.Product
	orders   map[string]*storedOrder
	intents  map[string]string
	admins   map[string]*model.Admin
}

type storedOrder struct {
	order model.Order
	seq   int
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]*model.Product),
		orders:   make(map[string]*storedOrder),
		intents:  make(map[string]string),
		admins:   make(map[string]*model.Admin),
	}
}

// MemoryProducts is the product repository view of a MemoryStore.
type MemoryProducts struct{ s *MemoryStore }

// MemoryOrders is the order repository view of a MemoryStore.
type MemoryOrders struct{ s *MemoryStore }

// MemoryAdmins is the admin repository view of a MemoryStore.
type MemoryAdmins struct{ s *MemoryStore }

var (
	_ repository.Factory           = (*MemoryStore)(nil)
	_ repository.ProductRepository = MemoryProducts{}
	_ repository.OrderRepository   = MemoryOrders{}
	_ repository.AdminRepository   = MemoryAdmins{}
)

func (s *MemoryStore) Products() repository.ProductRepository { return MemoryProducts{s} }
func (s *MemoryStore) Orders() repository.OrderRepository     { return MemoryOrders{s} }
func (s *MemoryStore) Admins() repository.AdminRepository     { return MemoryAdmins{s} }

// SeedProduct stores p as is, bypassing validation.
func (s *MemoryStore) SeedProduct(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Unix(int64(s.seq), 0)
	}
	s.products[p.ID] = cloneProduct(&p)
}

// Product returns a copy of a stored product; ok is false when missing.
func (s *MemoryStore) Product(id string) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, false
	}
	return *cloneProduct(p), true
}

// OrderCount returns the number of stored orders.
func (s *MemoryStore) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (r MemoryProducts) Create(ctx context.Context, product *model.Product) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.products[product.ID]; ok {
		return domainErrors.ErrAlreadyExists
	}
	s.products[product.ID] = cloneProduct(product)
	return nil
}

func (r MemoryProducts) GetByID(ctx context.Context, id string) (*model.Product, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (r MemoryProducts) GetMany(ctx context.Context, ids []string) (map[string]model.Product, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make(map[string]model.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = *cloneProduct(p)
		}
	}
	return out, nil
}

func (r MemoryProducts) List(ctx context.Context) ([]model.Product, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r MemoryProducts) Update(ctx context.Context, id string, input model.ProductInput) (*model.Product, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}

	switch {
	case input.WeeklyCap == nil:
		p.WeeklyRemaining = 0
	case input.WeeklyRemaining != nil:
		p.WeeklyRemaining = *input.WeeklyRemaining
	case p.WeeklyCap == nil:
		p.WeeklyRemaining = *input.WeeklyCap
	default:
		p.WeeklyRemaining = min(p.WeeklyRemaining, *input.WeeklyCap)
	}
	p.Name = input.Name
	p.Description = input.Description
	p.Price = input.Price
	p.WeeklyCap = cloneInt(input.WeeklyCap)
	p.UpdatedAt = time.Now()
	return cloneProduct(p), nil
}

func (r MemoryProducts) Delete(ctx context.Context, id string) (*model.Product, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	delete(s.products, id)
	return p, nil
}

func (r MemoryProducts) SetImage(ctx context.Context, id, ref string) (string, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	p, ok := s.products[id]
	if !ok {
		return "", domainErrors.ErrNotFound
	}
	previous := p.Image
	p.Image = ref
	return previous, nil
}

func (r MemoryProducts) SetRemaining(ctx context.Context, id string, value int) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	p, ok := s.products[id]
	switch {
	case !ok:
		return domainErrors.ErrNotFound
	case p.WeeklyCap == nil:
		return domainErrors.ErrUncapped
	case value < 0:
		return domainErrors.ErrInvalidAmount
	case value > *p.WeeklyCap:
		return domainErrors.ErrExceedsCap
	}
	p.WeeklyRemaining = value
	return nil
}

func (r MemoryProducts) ResetRemaining(ctx context.Context) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var affected int64
	for _, p := range s.products {
		if p.WeeklyCap != nil {
			p.WeeklyRemaining = *p.WeeklyCap
			affected++
		}
	}
	return affected, nil
}

// Commit checks every reservation against the current counters before
// applying any of them, so a failing line leaves all counters untouched.
func (r MemoryOrders) Commit(ctx context.Context, order *model.Order, reservations []model.Reservation) (*model.Order, bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, false, s.Err
	}

	if order.PaymentIntentID != "" {
		if id, ok := s.intents[order.PaymentIntentID]; ok {
			existing := cloneOrder(s.orders[id].order)
			return &existing, false, nil
		}
	}

	pending := make(map[string]int, len(reservations))
	for _, res := range reservations {
		p, ok := s.products[res.ProductID]
		if !ok {
			return nil, false, domainErrors.ErrProductNotFound
		}
		if p.WeeklyCap == nil {
			continue
		}
		available := p.WeeklyRemaining - pending[res.ProductID]
		if available < res.Quantity {
			return nil, false, &domainErrors.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   res.Quantity,
				Available:   available,
			}
		}
		pending[res.ProductID] += res.Quantity
	}
	for id, qty := range pending {
		s.products[id].WeeklyRemaining -= qty
	}

	s.seq++
	stored := cloneOrder(*order)
	s.orders[order.ID] = &storedOrder{order: stored, seq: s.seq}
	if order.PaymentIntentID != "" {
		s.intents[order.PaymentIntentID] = order.ID
	}
	out := cloneOrder(stored)
	return &out, true, nil
}

func (r MemoryOrders) GetByID(ctx context.Context, id string) (*model.Order, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := cloneOrder(o.order)
	return &out, nil
}

func (r MemoryOrders) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*model.Order, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	id, ok := s.intents[paymentIntentID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := cloneOrder(s.orders[id].order)
	return &out, nil
}

func (r MemoryOrders) List(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.sortedOrders(func(o model.Order) bool {
		return status == nil || o.Status == *status
	}), nil
}

func (r MemoryOrders) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	o, ok := s.orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if o.order.Status != from {
		return domainErrors.ErrInvalidTransition
	}
	o.order.Status = to
	o.order.UpdatedAt = time.Now()
	return nil
}

func (r MemoryOrders) FindRecentByEmail(ctx context.Context, email string, since time.Time) (*model.Order, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	matches := s.sortedOrders(func(o model.Order) bool {
		return strings.EqualFold(o.Customer.Email, email) && !o.CreatedAt.Before(since)
	})
	if len(matches) == 0 {
		return nil, domainErrors.ErrNotFound
	}
	return &matches[0], nil
}

func (s *MemoryStore) sortedOrders(keep func(model.Order) bool) []model.Order {
	stored := make([]*storedOrder, 0, len(s.orders))
	for _, o := range s.orders {
		if keep(o.order) {
			stored = append(stored, o)
		}
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].seq > stored[j].seq })
	out := make([]model.Order, len(stored))
	for i, o := range stored {
		out[i] = cloneOrder(o.order)
	}
	return out
}

func (r MemoryAdmins) Upsert(ctx context.Context, email, passwordHash string) (*model.Admin, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	admin, ok := s.admins[email]
	if !ok {
		admin = &model.Admin{Email: email, CreatedAt: time.Now()}
		s.admins[email] = admin
	}
	admin.PasswordHash = passwordHash
	out := *admin
	return &out, nil
}

func (r MemoryAdmins) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	admin, ok := s.admins[email]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := *admin
	return &out, nil
}

func cloneProduct(p *model.Product) *model.Product {
	out := *p
	out.WeeklyCap = cloneInt(p.WeeklyCap)
	return &out
}

func cloneOrder(o model.Order) model.Order {
	o.Items = append([]model.OrderItem(nil), o.Items...)
	return o
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

package service

import (
	"context"
	"sync"
	"time"

	"github.com/shrush07/puff-n-sip-backend/internal/cache"
	"github.com/shrush07/puff-n-sip-backend/internal/catalog"
	"github.com/shrush07/puff-n-sip-backend/internal/domain"
	"github.com/shrush07/puff-n-sip-backend/internal/repository"
)

// memCartRepository implements repository.CartRepository in memory with
// the same per-owner atomicity the Mongo implementation provides.
type memCartRepository struct {
	mu    sync.Mutex
	carts map[domain.OwnerKey]*domain.Cart
	err   error
}

func newMemCartRepository() *memCartRepository {
	return &memCartRepository{carts: make(map[domain.OwnerKey]*domain.Cart)}
}

func (m *memCartRepository) Get(_ context.Context, owner domain.OwnerKey) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	cart, ok := m.carts[owner]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	cp := *cart
	cp.Items = append([]domain.CartItem(nil), cart.Items...)
	return &cp, nil
}

func (m *memCartRepository) AddItem(_ context.Context, owner domain.OwnerKey, item domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	cart, ok := m.carts[owner]
	if !ok {
		now := time.Now()
		cart = &domain.Cart{OwnerKey: owner, CreatedAt: now, UpdatedAt: now}
		m.carts[owner] = cart
	}

	item.LineTotal = item.UnitPrice * int64(item.Quantity)
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			cart.Items[i].LineTotal += item.LineTotal
			cart.TotalCount += item.Quantity
			cart.TotalPrice += item.LineTotal
			return nil
		}
	}

	cart.Items = append(cart.Items, item)
	cart.TotalCount += item.Quantity
	cart.TotalPrice += item.LineTotal
	return nil
}

func (m *memCartRepository) SetItem(_ context.Context, owner domain.OwnerKey, productID string, quantity int, unitPrice int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	cart, ok := m.carts[owner]
	if !ok {
		return repository.ErrCartNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			newLineTotal := unitPrice * int64(quantity)
			cart.TotalCount += quantity - cart.Items[i].Quantity
			cart.TotalPrice += newLineTotal - cart.Items[i].LineTotal
			cart.Items[i].Quantity = quantity
			cart.Items[i].UnitPrice = unitPrice
			cart.Items[i].LineTotal = newLineTotal
			return nil
		}
	}
	return repository.ErrItemNotFound
}

func (m *memCartRepository) RemoveItem(_ context.Context, owner domain.OwnerKey, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	cart, ok := m.carts[owner]
	if !ok {
		return nil
	}
	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.TotalCount -= item.Quantity
			cart.TotalPrice -= item.LineTotal
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memCartRepository) Clear(_ context.Context, owner domain.OwnerKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	if cart, ok := m.carts[owner]; ok {
		cart.Items = nil
		cart.TotalCount = 0
		cart.TotalPrice = 0
	}
	return nil
}

func (m *memCartRepository) EnsureIndexes(context.Context) error { return nil }

// memOrderRepository implements repository.OrderRepository in memory,
// including the single-draft-per-owner constraint and the conditional
// Complete/Cancel classification.
type memOrderRepository struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newMemOrderRepository() *memOrderRepository {
	return &memOrderRepository{orders: make(map[string]*domain.Order)}
}

func (m *memOrderRepository) Insert(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.orders {
		if o.OwnerKey == order.OwnerKey && o.Status.IsDraft() {
			return repository.ErrDraftExists
		}
	}

	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *memOrderRepository) Get(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(id)
}

func (m *memOrderRepository) getLocked(id string) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

func (m *memOrderRepository) FindDraft(_ context.Context, owner domain.OwnerKey) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.orders {
		if o.OwnerKey == owner && o.Status.IsDraft() {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *memOrderRepository) FindLatest(_ context.Context, owner domain.OwnerKey) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var latest *domain.Order
	for _, o := range m.orders {
		if o.OwnerKey != owner {
			continue
		}
		if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
			latest = o
		}
	}
	if latest == nil {
		return nil, repository.ErrOrderNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *memOrderRepository) UpdateDraft(_ context.Context, id string, items []domain.OrderItem, totalPrice int64, shipping domain.ShippingInfo) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	if !order.Status.IsDraft() {
		return nil, repository.ErrOrderNotDraft
	}

	order.Items = items
	order.TotalPrice = totalPrice
	order.Shipping = shipping
	order.Status = domain.OrderStatusModified
	order.UpdatedAt = time.Now()
	cp := *order
	return &cp, nil
}

func (m *memOrderRepository) Complete(_ context.Context, id, paymentRef string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}

	switch order.Status {
	case domain.OrderStatusNew, domain.OrderStatusModified:
		order.Status = domain.OrderStatusCompleted
		order.PaymentRef = paymentRef
		order.UpdatedAt = time.Now()
	case domain.OrderStatusCompleted:
		if order.PaymentRef != paymentRef {
			return nil, repository.ErrPaymentMismatch
		}
	case domain.OrderStatusCancelled:
		return nil, repository.ErrOrderNotDraft
	}

	cp := *order
	return &cp, nil
}

func (m *memOrderRepository) Cancel(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	switch order.Status {
	case domain.OrderStatusNew, domain.OrderStatusModified, domain.OrderStatusCancelled:
		order.Status = domain.OrderStatusCancelled
	case domain.OrderStatusCompleted:
		return nil, repository.ErrOrderNotDraft
	}
	cp := *order
	return &cp, nil
}

func (m *memOrderRepository) EnsureIndexes(context.Context) error { return nil }

type mockCache struct {
	mu   sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, domain.OwnerKey) (*domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ domain.OwnerKey, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, domain.OwnerKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = nil
	return m.err
}

type mockCatalog struct {
	mu       sync.Mutex
	products map[string]*catalog.Product
}

func newMockCatalog(products ...catalog.Product) *mockCatalog {
	c := &mockCatalog{products: make(map[string]*catalog.Product)}
	for i := range products {
		p := products[i]
		c.products[p.ID] = &p
	}
	return c
}

func (m *mockCatalog) Lookup(_ context.Context, productID string) (*catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockCatalog) setPrice(productID string, price int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[productID]; ok {
		p.Price = price
	}
}

type mockPublisher struct {
	mu        sync.Mutex
	published []*domain.Order
	err       error
}

func (m *mockPublisher) OrderCompleted(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, order)
	return nil
}

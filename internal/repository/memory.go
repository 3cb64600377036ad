package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iyanu752/e-commerce-api/internal/domain"
	"github.com/iyanu752/e-commerce-api/internal/inventory"
)

// MemoryStore holds products, carts and orders behind a single mutex with the
// same semantics as the MongoDB implementations. It backs the test suite and
// doubles as a zero-dependency backend. The repository views are exposed
// through Products/Carts/Orders; the store itself is the inventory Ledger.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	carts    map[string]*domain.Cart // keyed by user id
	orders   map[string]*domain.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]*domain.Product),
		carts:    make(map[string]*domain.Cart),
		orders:   make(map[string]*domain.Order),
	}
}

func (s *MemoryStore) Products() ProductRepository { return &memoryProducts{s} }
func (s *MemoryStore) Carts() CartRepository       { return &memoryCarts{s} }
func (s *MemoryStore) Orders() OrderRepository     { return &memoryOrders{s} }

func newID() string {
	// Same id scheme as the Mongo repositories, so cursor ordering holds.
	return primitive.NewObjectID().Hex()
}

// ---- products ----

type memoryProducts struct{ s *MemoryStore }

func (m *memoryProducts) Create(_ context.Context, product *domain.Product) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	now := time.Now()
	if product.ID == "" {
		product.ID = newID()
	}
	product.CreatedAt = now
	product.UpdatedAt = now

	clone := *product
	m.s.products[product.ID] = &clone
	return nil
}

func (m *memoryProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	product, ok := m.s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (m *memoryProducts) Update(_ context.Context, product *domain.Product) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	existing, ok := m.s.products[product.ID]
	if !ok {
		return ErrProductNotFound
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()

	clone := *product
	m.s.products[product.ID] = &clone
	return nil
}

func (m *memoryProducts) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(m.s.products, id)
	return nil
}

func (m *memoryProducts) List(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var out []domain.Product
	for _, p := range m.s.products {
		if !p.IsActive {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.MinPrice != nil && p.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
			continue
		}
		if filter.Search != "" && !matchesSearch(p, filter.Search) {
			continue
		}
		if filter.Cursor != "" && p.ID <= filter.Cursor {
			continue
		}
		out = append(out, *p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func matchesSearch(p *domain.Product, search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}

// ---- carts ----

type memoryCarts struct{ s *MemoryStore }

func (m *memoryCarts) Get(_ context.Context, userID string) (*domain.Cart, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	cart, ok := m.s.carts[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return cloneCart(cart), nil
}

func (m *memoryCarts) Upsert(_ context.Context, cart *domain.Cart) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	now := time.Now()
	if cart.ID == "" {
		cart.ID = newID()
	}
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	m.s.carts[cart.UserID] = cloneCart(cart)
	return nil
}

func cloneCart(cart *domain.Cart) *domain.Cart {
	clone := *cart
	clone.Items = append([]domain.CartItem(nil), cart.Items...)
	return &clone
}

// ---- orders ----

type memoryOrders struct{ s *MemoryStore }

func (m *memoryOrders) Create(_ context.Context, order *domain.Order) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, existing := range m.s.orders {
		if existing.OrderNumber == order.OrderNumber {
			return ErrDuplicateOrder
		}
	}

	now := time.Now()
	if order.ID == "" {
		order.ID = newID()
	}
	order.CreatedAt = now
	order.UpdatedAt = now

	m.s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (m *memoryOrders) GetByID(_ context.Context, id string) (*domain.Order, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	order, ok := m.s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (m *memoryOrders) GetForUser(_ context.Context, id, userID string) (*domain.Order, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	order, ok := m.s.orders[id]
	if !ok || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (m *memoryOrders) Update(_ context.Context, order *domain.Order) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.orders[order.ID]; !ok {
		return ErrOrderNotFound
	}
	order.UpdatedAt = time.Now()
	m.s.orders[order.ID] = cloneOrder(order)
	return nil
}

// ResolvePayment holds the lock across check and write, matching the Mongo
// implementation's conditional replace: only one resolution can see pending.
func (m *memoryOrders) ResolvePayment(_ context.Context, order *domain.Order) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	existing, ok := m.s.orders[order.ID]
	if !ok {
		return ErrOrderNotFound
	}
	if existing.PaymentStatus != domain.PaymentStatusPending {
		return ErrPaymentConflict
	}
	order.UpdatedAt = time.Now()
	m.s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (m *memoryOrders) ListByUser(_ context.Context, userID, cursor string, limit int) ([]domain.Order, error) {
	return m.list(userID, cursor, limit)
}

func (m *memoryOrders) ListAll(_ context.Context, cursor string, limit int) ([]domain.Order, error) {
	return m.list("", cursor, limit)
}

func (m *memoryOrders) list(userID, cursor string, limit int) ([]domain.Order, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var out []domain.Order
	for _, o := range m.s.orders {
		if userID != "" && o.UserID != userID {
			continue
		}
		if cursor != "" && o.ID >= cursor {
			continue
		}
		out = append(out, *cloneOrder(o))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = append([]domain.OrderItem(nil), order.Items...)
	return &clone
}

// ---- inventory.Ledger ----

func (s *MemoryStore) CheckAvailable(_ context.Context, productID string, qty int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[productID]
	if !ok {
		return false, inventory.ErrProductNotFound
	}
	return product.Stock >= qty, nil
}

// Reserve holds the lock across check and decrement, which gives the same
// guarantee the Mongo ledger gets from its conditional update: stock never
// goes negative under concurrent reservations.
func (s *MemoryStore) Reserve(_ context.Context, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return inventory.ErrProductNotFound
	}
	if product.Stock < qty {
		return inventory.ErrInsufficientStock
	}
	product.Stock -= qty
	return nil
}

func (s *MemoryStore) Release(_ context.Context, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return inventory.ErrProductNotFound
	}
	product.Stock += qty
	return nil
}

var _ inventory.Ledger = (*MemoryStore)(nil)

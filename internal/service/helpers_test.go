package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iyanu752/e-commerce-api/internal/cache"
	"github.com/iyanu752/e-commerce-api/internal/domain"
	"github.com/iyanu752/e-commerce-api/internal/events"
	"github.com/iyanu752/e-commerce-api/internal/payment"
	"github.com/iyanu752/e-commerce-api/internal/repository"
)

// mockCache records invalidations and serves nothing, so service tests always
// exercise the repository path.
type mockCache struct {
	m                   sync.Mutex
	invalidatedProducts []string
	invalidatedListings int
}

func (c *mockCache) GetListing(context.Context, string) (*domain.Page[domain.Product], error) {
	return nil, cache.ErrCacheMiss
}

func (c *mockCache) SetListing(context.Context, string, *domain.Page[domain.Product]) error {
	return nil
}

func (c *mockCache) GetProduct(context.Context, string) (*domain.Product, error) {
	return nil, cache.ErrCacheMiss
}

func (c *mockCache) SetProduct(context.Context, *domain.Product) error { return nil }

func (c *mockCache) InvalidateProduct(_ context.Context, id string) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.invalidatedProducts = append(c.invalidatedProducts, id)
	return nil
}

func (c *mockCache) InvalidateListings(context.Context) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.invalidatedListings++
	return nil
}

func (c *mockCache) productInvalidations() []string {
	c.m.Lock()
	defer c.m.Unlock()
	return append([]string(nil), c.invalidatedProducts...)
}

func (c *mockCache) listingInvalidations() int {
	c.m.Lock()
	defer c.m.Unlock()
	return c.invalidatedListings
}

type mockPublisher struct {
	m      sync.Mutex
	events []events.OrderEvent
}

func (p *mockPublisher) Publish(_ context.Context, event events.OrderEvent) error {
	p.m.Lock()
	defer p.m.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *mockPublisher) Close() error { return nil }

func (p *mockPublisher) published() []events.OrderEvent {
	p.m.Lock()
	defer p.m.Unlock()
	return append([]events.OrderEvent(nil), p.events...)
}

// stubGateway answers with a fixed outcome and counts charges.
type stubGateway struct {
	m       sync.Mutex
	succeed bool
	err     error
	charges int
}

func (g *stubGateway) Charge(context.Context, float64, string, map[string]string) (*payment.ChargeResult, error) {
	g.m.Lock()
	defer g.m.Unlock()
	g.charges++
	if g.err != nil {
		return nil, g.err
	}
	result := &payment.ChargeResult{TransactionID: payment.NewTransactionID(), Success: g.succeed}
	if !g.succeed {
		result.Message = "Insufficient funds or card declined"
	}
	return result, nil
}

func (g *stubGateway) chargeCount() int {
	g.m.Lock()
	defer g.m.Unlock()
	return g.charges
}

type fixture struct {
	store     *repository.MemoryStore
	cache     *mockCache
	publisher *mockPublisher
	gateway   *stubGateway

	products *ProductService
	carts    *CartService
	orders   *OrderService
	checkout *CheckoutService
}

func newFixture(t *testing.T, gatewaySucceeds bool) *fixture {
	t.Helper()

	f := &fixture{
		store:     repository.NewMemoryStore(),
		cache:     &mockCache{},
		publisher: &mockPublisher{},
		gateway:   &stubGateway{succeed: gatewaySucceeds},
	}
	f.products = NewProductService(f.store.Products(), f.cache)
	f.carts = NewCartService(f.store.Carts(), f.store.Products())
	f.orders = NewOrderService(f.store.Orders(), f.store.Carts(), f.store.Products(), f.store, f.cache, f.publisher)
	f.checkout = NewCheckoutService(f.store.Orders(), f.store.Products(), f.store, f.gateway, f.cache, f.publisher)
	return f
}

func (f *fixture) seedProduct(t *testing.T, name string, price float64, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{Name: name, Price: price, Stock: stock, IsActive: true}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) stockOf(t *testing.T, productID string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}

func testAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		FullName: "Jane Doe",
		Address:  "1 Main St",
		City:     "Springfield",
		State:    "IL",
		ZipCode:  "62701",
		Country:  "US",
	}
}

package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyanu752/e-commerce-api/internal/domain"
	"github.com/iyanu752/e-commerce-api/internal/inventory"
)

func seedProduct(t *testing.T, store *MemoryStore, name string, price float64, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{Name: name, Price: price, Stock: stock, IsActive: true}
	require.NoError(t, store.Products().Create(context.Background(), p))
	require.NotEmpty(t, p.ID)
	return p
}

func TestMemoryProductsCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created := seedProduct(t, store, "Laptop", 999.99, 5)

	got, err := store.Products().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", got.Name)
	assert.False(t, got.CreatedAt.IsZero())

	got.Price = 899.99
	require.NoError(t, store.Products().Update(ctx, got))
	updated, err := store.Products().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 899.99, updated.Price)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	require.NoError(t, store.Products().Delete(ctx, created.ID))
	_, err = store.Products().GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	err = store.Products().Delete(ctx, "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryProductsListFilter(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	seedProduct(t, store, "Laptop", 999, 5)
	seedProduct(t, store, "Mouse", 25, 50)
	cheap := seedProduct(t, store, "Cable", 5, 100)
	cheap.Category = "accessories"
	require.NoError(t, store.Products().Update(ctx, cheap))

	minPrice := 10.0
	got, err := store.Products().List(ctx, domain.ProductFilter{MinPrice: &minPrice, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = store.Products().List(ctx, domain.ProductFilter{Category: "accessories", Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Cable", got[0].Name)

	got, err = store.Products().List(ctx, domain.ProductFilter{Search: "mouse", Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mouse", got[0].Name)
}

// Walking the catalog two items at a time must visit every product exactly
// once and stop cleanly.
func TestMemoryProductsCursorPagination(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const total = 5
	for i := 0; i < total; i++ {
		seedProduct(t, store, fmt.Sprintf("Product %d", i), 10, 1)
	}

	const limit = 2
	seen := make(map[string]bool)
	cursor := ""
	pages := 0
	for {
		items, err := store.Products().List(ctx, domain.ProductFilter{Cursor: cursor, Limit: limit + 1})
		require.NoError(t, err)
		page := domain.NewPage(items, limit, func(p domain.Product) string { return p.ID })
		pages++

		for _, p := range page.Data {
			assert.False(t, seen[p.ID], "product %s returned twice", p.ID)
			seen[p.ID] = true
		}
		if !page.Pagination.HasMore {
			break
		}
		cursor = page.Pagination.NextCursor
	}

	assert.Equal(t, 3, pages)
	assert.Len(t, seen, total)
}

func TestMemoryCartsUpsert(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Carts().Get(ctx, "user1")
	assert.ErrorIs(t, err, ErrCartNotFound)

	cart := &domain.Cart{UserID: "user1", Items: []domain.CartItem{{ProductID: "p1", Quantity: 2, Price: 10}}}
	cart.RecalculateTotal()
	require.NoError(t, store.Carts().Upsert(ctx, cart))
	assert.NotEmpty(t, cart.ID)

	got, err := store.Carts().Get(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, got.ID)
	assert.Equal(t, 20.0, got.TotalAmount)

	// Mutating the returned copy must not affect the stored cart.
	got.Items[0].Quantity = 99
	again, err := store.Carts().Get(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Items[0].Quantity)
}

func TestMemoryOrdersListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 0; i < 3; i++ {
		order := &domain.Order{
			OrderNumber:   fmt.Sprintf("ORD-%d", i),
			UserID:        "user1",
			Status:        domain.OrderStatusPending,
			PaymentStatus: domain.PaymentStatusPending,
		}
		require.NoError(t, store.Orders().Create(ctx, order))
	}
	other := &domain.Order{OrderNumber: "ORD-X", UserID: "user2", Status: domain.OrderStatusPending}
	require.NoError(t, store.Orders().Create(ctx, other))

	orders, err := store.Orders().ListByUser(ctx, "user1", "", 10)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i := 1; i < len(orders); i++ {
		assert.Greater(t, orders[i-1].ID, orders[i].ID, "orders must be newest first")
	}

	all, err := store.Orders().ListAll(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	// Cursor continues strictly after the previous page.
	first, err := store.Orders().ListAll(ctx, "", 2)
	require.NoError(t, err)
	rest, err := store.Orders().ListAll(ctx, first[1].ID, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 2)
	assert.Less(t, rest[0].ID, first[1].ID)
}

func TestMemoryOrdersGetForUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	order := &domain.Order{OrderNumber: "ORD-1", UserID: "user1", Status: domain.OrderStatusPending}
	require.NoError(t, store.Orders().Create(ctx, order))

	got, err := store.Orders().GetForUser(ctx, order.ID, "user1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// Another user's id must behave exactly like a missing order.
	_, err = store.Orders().GetForUser(ctx, order.ID, "user2")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMemoryOrdersDuplicateNumber(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := &domain.Order{OrderNumber: "ORD-1", UserID: "user1"}
	require.NoError(t, store.Orders().Create(ctx, first))

	dup := &domain.Order{OrderNumber: "ORD-1", UserID: "user1"}
	assert.ErrorIs(t, store.Orders().Create(ctx, dup), ErrDuplicateOrder)
}

func TestMemoryOrdersResolvePaymentOnlyOnce(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	order := &domain.Order{
		OrderNumber:   "ORD-1",
		UserID:        "user1",
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
	}
	require.NoError(t, store.Orders().Create(ctx, order))

	paid := *order
	paid.PaymentStatus = domain.PaymentStatusPaid
	require.NoError(t, store.Orders().ResolvePayment(ctx, &paid))

	// A second resolution finds the payment no longer pending.
	failed := *order
	failed.PaymentStatus = domain.PaymentStatusFailed
	assert.ErrorIs(t, store.Orders().ResolvePayment(ctx, &failed), ErrPaymentConflict)

	got, err := store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, got.PaymentStatus)

	missing := *order
	missing.ID = "missing"
	assert.ErrorIs(t, store.Orders().ResolvePayment(ctx, &missing), ErrOrderNotFound)
}

func TestMemoryLedgerReserveRelease(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := seedProduct(t, store, "Laptop", 999, 3)

	ok, err := store.CheckAvailable(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Reserve(ctx, p.ID, 2))
	got, err := store.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)

	assert.ErrorIs(t, store.Reserve(ctx, p.ID, 2), inventory.ErrInsufficientStock)
	assert.ErrorIs(t, store.Reserve(ctx, "missing", 1), inventory.ErrProductNotFound)

	require.NoError(t, store.Release(ctx, p.ID, 2))
	got, err = store.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)
}

// Hammer one product from many goroutines: the number of successful
// reservations must equal the starting stock and stock must end at zero,
// never negative.
func TestMemoryLedgerConcurrentReserve(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const stock = 50
	const workers = 200
	p := seedProduct(t, store, "Limited", 10, stock)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Reserve(ctx, p.ID, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, stock, succeeded)
	got, err := store.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Stock)
}

package repository

import (
	"context"
	"errors"

	"github.com/iyanu752/e-commerce-api/internal/domain"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrDuplicateOrder  = errors.New("order number already exists")
	ErrPaymentConflict = errors.New("payment already resolved")
)

// CartRepository persists one cart per user. Consumers define these
// interfaces, not the MongoDB implementations.
type CartRepository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Upsert(ctx context.Context, cart *domain.Cart) error
}

// ProductRepository reads and writes catalog documents. List receives the
// limit already incremented by one; callers trim via domain.NewPage.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

// OrderRepository persists immutable order snapshots. Listings are sorted by
// creation time descending; the cursor is the id of the last seen order.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetForUser(ctx context.Context, id, userID string) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error

	// ResolvePayment writes the order only while the stored payment status is
	// still pending, so exactly one of any concurrent payment attempts lands.
	// ErrPaymentConflict reports that another request resolved it first.
	ResolvePayment(ctx context.Context, order *domain.Order) error
	ListByUser(ctx context.Context, userID, cursor string, limit int) ([]domain.Order, error)
	ListAll(ctx context.Context, cursor string, limit int) ([]domain.Order, error)
}

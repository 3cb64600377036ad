package cache

import (
	"context"
	"errors"

	"github.com/iyanu752/e-commerce-api/internal/domain"
)

// CatalogCache caches paginated catalog listings and single-product reads.
// Listings are keyed by the full filter encoding and can only be invalidated
// as a namespace, since filter combinations are unbounded. Reads within the
// TTL window may be stale; correctness-critical stock checks never go through
// this cache.
type CatalogCache interface {
	GetListing(ctx context.Context, key string) (*domain.Page[domain.Product], error)
	SetListing(ctx context.Context, key string, page *domain.Page[domain.Product]) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	InvalidateProduct(ctx context.Context, id string) error
	InvalidateListings(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/iyanu752/e-commerce-api/internal/cache"
	"github.com/iyanu752/e-commerce-api/internal/domain"
	"github.com/iyanu752/e-commerce-api/internal/repository"
)

// ProductService serves catalog reads through the query cache and keeps the
// cache coherent across catalog mutations. Cache failures are logged and the
// request falls through to the repository.
type ProductService struct {
	products repository.ProductRepository
	cache    cache.CatalogCache
	sfg      singleflight.Group // prevents cache stampede on hot listings
}

func NewProductService(products repository.ProductRepository, catalogCache cache.CatalogCache) *ProductService {
	return &ProductService{products: products, cache: catalogCache}
}

func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter) (*domain.Page[domain.Product], error) {
	if filter.Limit <= 0 {
		filter.Limit = domain.DefaultPageLimit
	}
	key := listingKey(filter)

	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		page, err := s.cache.GetListing(ctx, key)
		if err == nil {
			return page, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err)
		}

		query := filter
		query.Limit = filter.Limit + 1
		products, err := s.products.List(ctx, query)
		if err != nil {
			return nil, err
		}

		page = new(domain.Page[domain.Product])
		*page = domain.NewPage(products, filter.Limit, func(p domain.Product) string { return p.ID })

		// Written before List returns, so a mutation that invalidates the
		// namespace afterwards cannot be undone by a straggling write.
		if err := s.cache.SetListing(ctx, key, page); err != nil {
			log.Printf("cache set error: %v", err)
		}

		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Page[domain.Product]), nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.cache.GetProduct(ctx, id)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("cache get error: %v", err)
	}

	product, err = s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetProduct(ctx, product); err != nil {
		log.Printf("cache set error: %v", err)
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	invalidateCatalog(s.cache, product.ID)
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	existing, err := s.products.GetByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	product.CreatedAt = existing.CreatedAt
	if product.CreatedBy == "" {
		product.CreatedBy = existing.CreatedBy
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	invalidateCatalog(s.cache, product.ID)
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	invalidateCatalog(s.cache, id)
	return nil
}

// listingKey deterministically encodes the full filter set, including the
// cursor and limit, so every distinct query caches separately.
func listingKey(f domain.ProductFilter) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%d",
		f.Category, formatPrice(f.MinPrice), formatPrice(f.MaxPrice), f.Search, f.Cursor, f.Limit)
}

func formatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *p)
}

// invalidateCatalog drops the given products' single-read entries and the
// whole listing namespace. Every catalog or stock write goes through here;
// failures are logged because the TTL bounds any staleness.
func invalidateCatalog(c cache.CatalogCache, productIDs ...string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for _, id := range productIDs {
		if err := c.InvalidateProduct(ctx, id); err != nil {
			log.Printf("cache invalidate error for product %s: %v", id, err)
		}
	}
	if err := c.InvalidateListings(ctx); err != nil {
		log.Printf("cache invalidate error for listings: %v", err)
	}
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iyanu752/e-commerce-api/internal/domain"
)

const (
	listingKeyPrefix = "products:list:"
	productKeyPrefix = "products:item:"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:     client,
		listingTTL: 5 * time.Minute,
		productTTL: 10 * time.Minute,
	}
}

type RedisCache struct {
	client     *redis.Client
	listingTTL time.Duration
	productTTL time.Duration
}

func (r *RedisCache) GetListing(ctx context.Context, key string) (*domain.Page[domain.Product], error) {
	data, err := r.client.Get(ctx, listingKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var page domain.Page[domain.Product]
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("unmarshal listing failed: %w", err)
	}
	return &page, nil
}

func (r *RedisCache) SetListing(ctx context.Context, key string, page *domain.Page[domain.Product]) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshal listing failed: %w", err)
	}

	// Jitter spreads expiry so a burst of listings does not all refill at once.
	ttl := r.listingTTL + time.Duration(rand.Intn(30))*time.Second
	if err := r.client.Set(ctx, listingKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	data, err := r.client.Get(ctx, productKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("unmarshal product failed: %w", err)
	}
	return &product, nil
}

func (r *RedisCache) SetProduct(ctx context.Context, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product failed: %w", err)
	}
	if err := r.client.Set(ctx, productKeyPrefix+product.ID, data, r.productTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) InvalidateProduct(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, productKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// InvalidateListings drops the whole listing namespace. Individual listings
// cannot be invalidated selectively because any filter combination may contain
// the mutated product.
func (r *RedisCache) InvalidateListings(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, listingKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis delete failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	return nil
}

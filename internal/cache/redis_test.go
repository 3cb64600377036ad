package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyanu752/e-commerce-api/internal/domain"
)

func setupCache(t *testing.T) *RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client)
}

func TestProductCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := setupCache(t)

	_, err := c.GetProduct(ctx, "p1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	product := &domain.Product{ID: "p1", Name: "Laptop", Price: 999.99, Stock: 5, IsActive: true}
	require.NoError(t, c.SetProduct(ctx, product))

	got, err := c.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Laptop", got.Name)
	assert.Equal(t, 999.99, got.Price)

	require.NoError(t, c.InvalidateProduct(ctx, "p1"))
	_, err = c.GetProduct(ctx, "p1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestListingCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := setupCache(t)

	_, err := c.GetListing(ctx, "key1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	page := &domain.Page[domain.Product]{
		Data:       []domain.Product{{ID: "p1", Name: "Laptop"}},
		Pagination: domain.Pagination{NextCursor: "p1", HasMore: true},
	}
	require.NoError(t, c.SetListing(ctx, "key1", page))

	got, err := c.GetListing(ctx, "key1")
	require.NoError(t, err)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "p1", got.Data[0].ID)
	assert.True(t, got.Pagination.HasMore)
}

// A catalog mutation drops every cached listing but leaves unrelated
// single-product entries alone.
func TestInvalidateListingsClearsNamespace(t *testing.T) {
	ctx := context.Background()
	c := setupCache(t)

	page := &domain.Page[domain.Product]{Data: []domain.Product{{ID: "p1"}}}
	require.NoError(t, c.SetListing(ctx, "electronics||", page))
	require.NoError(t, c.SetListing(ctx, "books||", page))
	require.NoError(t, c.SetProduct(ctx, &domain.Product{ID: "p2", Name: "Mouse"}))

	require.NoError(t, c.InvalidateListings(ctx))

	_, err := c.GetListing(ctx, "electronics||")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.GetListing(ctx, "books||")
	assert.ErrorIs(t, err, ErrCacheMiss)

	got, err := c.GetProduct(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "Mouse", got.Name)
}

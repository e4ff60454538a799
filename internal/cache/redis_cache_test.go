package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ecommkit/storefront/internal/cache"
	"github.com/ecommkit/storefront/internal/config"
	"github.com/ecommkit/storefront/internal/models"
	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCacheTest(t *testing.T) (cache.Cache, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()

	c := cache.NewRedisCache(client, &config.Cache{
		ProductTTL: 5 * time.Minute,
		DefaultTTL: time.Minute,
	})

	return c, mock
}

func TestCacheGet(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Hit", func(t *testing.T) {
		c, mock := setupCacheTest(t)

		product := models.Product{ID: 7, Title: "Keyboard", Price: decimal.RequireFromString("49.99")}
		data, err := json.Marshal(product)
		require.NoError(t, err)

		mock.ExpectGet("product:7").SetVal(string(data))

		var got models.Product

		hit, err := c.Get(ctx, cache.Key(cache.ProductKeyPrefix, "7"), &got)

		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, int64(7), got.ID)
		assert.True(t, got.Price.Equal(product.Price))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Miss Is Not An Error", func(t *testing.T) {
		c, mock := setupCacheTest(t)

		mock.ExpectGet("product:7").RedisNil()

		var got models.Product

		hit, err := c.Get(ctx, "product:7", &got)

		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("Failure - Transport Error Surfaces", func(t *testing.T) {
		c, mock := setupCacheTest(t)

		mock.ExpectGet("product:7").SetErr(errors.New("connection refused"))

		var got models.Product

		_, err := c.Get(ctx, "product:7", &got)

		assert.Error(t, err)
	})
}

func TestCacheSet(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Explicit TTL", func(t *testing.T) {
		c, mock := setupCacheTest(t)

		product := models.Product{ID: 7, Title: "Keyboard", Price: decimal.RequireFromString("49.99")}
		data, err := json.Marshal(product)
		require.NoError(t, err)

		mock.ExpectSet("product:7", data, 5*time.Minute).SetVal("OK")

		require.NoError(t, c.Set(ctx, "product:7", product, 5*time.Minute))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Zero TTL Falls Back To Default", func(t *testing.T) {
		c, mock := setupCacheTest(t)

		product := models.Product{ID: 7}
		data, err := json.Marshal(product)
		require.NoError(t, err)

		mock.ExpectSet("product:7", data, time.Minute).SetVal("OK")

		require.NoError(t, c.Set(ctx, "product:7", product, 0))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCacheDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		c, mock := setupCacheTest(t)

		mock.ExpectDel("product:7").SetVal(1)

		require.NoError(t, c.Delete(ctx, "product:7"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

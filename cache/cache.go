// Package cache is a small read-through cache for the product catalog,
// backed by redis. The cache is optional: a nil *ProductCache disables
// caching and every operation becomes a no-op miss.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Appyouz/ecommerce-backend/models"
	"github.com/redis/go-redis/v9"
)

const (
	productListKey = "products:all"
	productListTTL = 5 * time.Minute
)

type ProductCache struct {
	rdb *redis.Client
}

// New connects to redis at addr. An empty addr disables the cache; a
// failed ping logs and disables it rather than blocking startup.
func New(addr string) *ProductCache {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unavailable at %s, product cache disabled: %v", addr, err)
		return nil
	}
	return &ProductCache{rdb: rdb}
}

// GetProducts returns the cached unfiltered product list, or ok=false
// on a miss or any redis error.
func (c *ProductCache) GetProducts(ctx context.Context) ([]models.Product, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, productListKey).Result()
	if err != nil {
		return nil, false
	}
	var products []models.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, false
	}
	return products, true
}

// SetProducts stores the unfiltered product list with a short TTL.
func (c *ProductCache) SetProducts(ctx context.Context, products []models.Product) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, productListKey, raw, productListTTL).Err(); err != nil {
		log.Printf("failed to cache product list: %v", err)
	}
}

// Invalidate drops the cached list. Called after any catalog write.
func (c *ProductCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, productListKey).Err(); err != nil {
		log.Printf("failed to invalidate product cache: %v", err)
	}
}

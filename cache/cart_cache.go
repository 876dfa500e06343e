package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CartCountCache keeps per-owner cart line counts in Redis so the storefront
// badge does not hit the database on every page load. A nil *CartCountCache is
// valid and disables caching.
type CartCountCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartCountCache(addr, password string) *CartCountCache {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &CartCountCache{client: client, ttl: 24 * time.Hour}
}

func (c *CartCountCache) key(ownerID string) string {
	return fmt.Sprintf("cart_count:%s", ownerID)
}

// Get returns (count, true) on a hit. Misses and Redis errors both read as a
// miss; the caller falls back to the database.
func (c *CartCountCache) Get(ctx context.Context, ownerID string) (int, bool) {
	if c == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, c.key(ownerID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *CartCountCache) Set(ctx context.Context, ownerID string, count int) {
	if c == nil {
		return
	}
	c.client.Set(ctx, c.key(ownerID), strconv.Itoa(count), c.ttl)
}

// Invalidate drops the cached count after any cart mutation.
func (c *CartCountCache) Invalidate(ctx context.Context, ownerID string) {
	if c == nil {
		return
	}
	c.client.Del(ctx, c.key(ownerID))
}

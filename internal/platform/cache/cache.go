// Package cache provides an optional Redis-backed cache for recipe listings.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const listingPrefix = "recipes:listing:"

// RecipeCache caches serialized recipe listings in Redis. A nil *RecipeCache
// is valid and disables caching, so callers never need to branch on whether
// Redis is configured.
type RecipeCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRecipeCache connects to Redis at addr. An empty addr returns nil,
// disabling the cache.
func NewRecipeCache(addr string, ttl time.Duration, logger *zap.Logger) *RecipeCache {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &RecipeCache{client: client, ttl: ttl, logger: logger}
}

// ListingKey builds the cache key for one listing filter combination.
func ListingKey(cuisine, difficulty, dietary, query string) string {
	return fmt.Sprintf("%s%s|%s|%s|%s", listingPrefix, cuisine, difficulty, dietary, query)
}

// GetListing returns a cached listing payload, if present. Cache errors are
// logged and treated as misses.
func (c *RecipeCache) GetListing(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("recipe cache read failed", zap.Error(err))
		}
		return nil, false
	}
	return payload, true
}

// SetListing stores a listing payload with the configured TTL. Failures are
// logged and ignored; the cache is best effort.
func (c *RecipeCache) SetListing(ctx context.Context, key string, payload []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("recipe cache write failed", zap.Error(err))
	}
}

// InvalidateListings drops every cached listing. Called after recipe writes.
func (c *RecipeCache) InvalidateListings(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, listingPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("recipe cache invalidation failed", zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("recipe cache invalidation scan failed", zap.Error(err))
	}
}

// Close releases the Redis connection.
func (c *RecipeCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

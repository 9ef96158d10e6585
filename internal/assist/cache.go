package assist

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "assist:description"

// Cache keeps generated descriptions in Redis. A nil *Cache, or one without
// a client, caches nothing.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		// redis.Nil and transport errors both mean "generate it again"
		return "", false
	}
	return val, true
}

func (c *Cache) Set(ctx context.Context, key, value string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, key, value, c.ttl).Err()
}

func cacheKey(category, name string) string {
	return strings.Join([]string{cachePrefix, strings.ToLower(category), strings.ToLower(name)}, ":")
}

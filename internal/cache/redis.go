package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/matchmaker/internal/config"
)

// ShortlistTTL bounds how long a cached shortlist may serve reads before a
// DB round-trip refreshes it. Recomputes invalidate the key eagerly anyway.
const ShortlistTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

// Get returns the cached value, or "" on a cache miss.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// KeyForRecommendations generates the Redis key holding a user's cached
// recommendation shortlist (JSON).
func (c *RedisCache) KeyForRecommendations(userID uint64) string {
	return fmt.Sprintf("recs:list:%d", userID)
}

// InvalidateRecommendations drops the cached shortlist after a recompute so
// the next read sees the fresh rows.
func (c *RedisCache) InvalidateRecommendations(ctx context.Context, userID uint64) error {
	return c.Del(ctx, c.KeyForRecommendations(userID))
}

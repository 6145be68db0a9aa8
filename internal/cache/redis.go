package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/recruiterhub/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

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

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.Client.Incr(ctx, key).Result()
}

func (c *RedisCache) Decr(ctx context.Context, key string) (int64, error) {
	return c.Client.Decr(ctx, key).Result()
}

// KeyForConnectionCount generates the Redis key for a user's follower,
// following or endorser count. kind matches the tree field name.
func (c *RedisCache) KeyForConnectionCount(safeEmail, kind string) string {
	return fmt.Sprintf("connections:count:%s:%s", kind, safeEmail)
}

// KeyForLikeCount generates the Redis key for one post's like count.
func (c *RedisCache) KeyForLikeCount(safeEmail string, postIndex int) string {
	return fmt.Sprintf("likes:count:%s:%d", safeEmail, postIndex)
}

// UpdateCount stores a freshly derived count. Always refreshes TTL.
func (c *RedisCache) UpdateCount(ctx context.Context, key string, count int64) error {
	return c.Client.Set(ctx, key, count, time.Hour).Err()
}

// GetCount reads a cached count. (0, false) on cache miss.
func (c *RedisCache) GetCount(ctx context.Context, key string) (int64, bool, error) {
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, time.Hour).Err()
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces every key so Clear never touches foreign data.
const keyPrefix = "resume-scorer:"

// DefaultRedisTTL applies when Set is called with a zero ttl.
const DefaultRedisTTL = 7 * 24 * time.Hour

// RedisCache stores entries in Redis
type RedisCache struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedisCache connects to the server described by a redis:// URL. A bare
// host:port is accepted as well.
func NewRedisCache(url string, ttl time.Duration) (*RedisCache, error) {
	if url == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		opts = &redis.Options{Addr: url}
	}
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisCache{client: redis.NewClient(opts), defaultTTL: ttl}, nil
}

// Ping checks the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if _, _, err := splitKey(key); err != nil {
		return err
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	return wrapRedis(c.client.Set(ctx, keyPrefix+key, value, ttl).Err())
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if _, _, err := splitKey(key); err != nil {
		return nil, err
	}
	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapRedis(err)
	}
	return val, nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if _, _, err := splitKey(key); err != nil {
		return err
	}
	return wrapRedis(c.client.Del(ctx, keyPrefix+key).Err())
}

// Clear deletes every key under the cache prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return wrapRedis(err)
	}
	if len(keys) == 0 {
		return nil
	}
	return wrapRedis(c.client.Del(ctx, keys...).Err())
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func wrapRedis(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.ErrClosed) {
		return ErrClosed
	}
	return fmt.Errorf("redis: %w", err)
}

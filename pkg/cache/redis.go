package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	ferrors "github.com/matzehuels/floatplace/pkg/errors"
)

// RedisCache stores entries in Redis. Expiry is left to Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis server at url
// (redis://[user:password@]host:port/db) and checks that it answers.
// Connection failures are retried with backoff.
func NewRedisCache(ctx context.Context, url string) (Cache, error) {
	if err := ferrors.ValidateRedisURL(url); err != nil {
		return nil, err
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "parse redis url")
	}

	client := redis.NewClient(opts)
	err = RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return Retryable(fmt.Errorf("%w: ping %s: %v", ErrNetwork, opts.Addr, err))
		}
		return nil
	})
	if err != nil {
		_ = client.Close()
		return nil, ferrors.Wrap(ferrors.ErrCodeNetwork, err, "connect to redis")
	}
	return &RedisCache{client: client}, nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client) Cache {
	return &RedisCache{client: client}
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %s: %v", ErrNetwork, key, err)
	}
	return data, true, nil
}

// Set stores a value with the given TTL. A zero TTL never expires.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrNetwork, key, err)
	}
	return nil
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrNetwork, key, err)
	}
	return nil
}

// Close closes the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)

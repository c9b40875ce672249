package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache key patterns
const (
	KeyUserBySub = "users:sub:%s"
)

// TTL constants
const (
	// TTLUserBySub bounds staleness of the cached user projection used on
	// authenticated requests; updates invalidate eagerly as well
	TTLUserBySub = 5 * time.Minute
)

// Client wraps the go-redis client together with the key builder
type Client struct {
	rdb        *redis.Client
	KeyBuilder *KeyBuilder
}

// NewClient creates a new Redis client
func NewClient(redisURL string, environment string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 20
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, KeyBuilder: NewKeyBuilder(environment)}, nil
}

// NewClientFromRedis wraps an existing go-redis client, used by tests with
// miniredis
func NewClientFromRedis(rdb *redis.Client, environment string) *Client {
	return &Client{rdb: rdb, KeyBuilder: NewKeyBuilder(environment)}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Health checks the Redis connection
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Get retrieves a value from Redis; returns redis.Nil error on miss
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

// Set stores a value in Redis with a TTL
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// Delete removes keys from Redis
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// IsMiss reports whether the error is a cache miss
func IsMiss(err error) bool {
	return err == redis.Nil
}

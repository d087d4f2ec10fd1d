// Package cache stores vision backend responses in Redis so identical requests for the
// same image are not re-analyzed.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ultrapreps/visionqa/pkg/domain/ai"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// ResponseCache is a Redis-backed ai.ResponseCache.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache connects to Redis. A "redis://" prefix on Addr is accepted.
func NewResponseCache(opts Options) *ResponseCache {
	addr := strings.TrimPrefix(opts.Addr, "redis://")
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewResponseCacheWithClient(client, opts.TTL)
}

// NewResponseCacheWithClient wraps an existing client. A zero ttl keeps entries for a day.
func NewResponseCacheWithClient(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Ping checks the connection.
func (c *ResponseCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

func (c *ResponseCache) Get(ctx context.Context, key string) (*ai.CompletionResponse, bool, error) {
	data, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var resp ai.CompletionResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		return nil, false, fmt.Errorf("decode cached response: %w", err)
	}
	return &resp, true, nil
}

func (c *ResponseCache) Set(ctx context.Context, key string, resp *ai.CompletionResponse) error {
	if resp == nil {
		return nil
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Close releases the connection pool.
func (c *ResponseCache) Close() error {
	return c.client.Close()
}

package zoomapi

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache stores the OAuth access token between calls. Zoom tokens live
// for an hour; caching avoids a token round-trip per request.
type TokenCache interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string, ttl time.Duration) error
}

const redisTokenKey = "zoom:access_token"

// RedisTokenCache shares the token across service instances.
type RedisTokenCache struct {
	client *redis.Client
}

// NewRedisTokenCache creates a Redis-backed token cache.
func NewRedisTokenCache(client *redis.Client) *RedisTokenCache {
	return &RedisTokenCache{client: client}
}

// Get returns the cached token or "" when absent.
func (c *RedisTokenCache) Get(ctx context.Context) (string, error) {
	tok, err := c.client.Get(ctx, redisTokenKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	return tok, err
}

// Set stores the token with its remaining lifetime.
func (c *RedisTokenCache) Set(ctx context.Context, token string, ttl time.Duration) error {
	return c.client.Set(ctx, redisTokenKey, token, ttl).Err()
}

// MemoryTokenCache is a process-local cache for the CLI.
type MemoryTokenCache struct {
	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewMemoryTokenCache creates an in-memory token cache.
func NewMemoryTokenCache() *MemoryTokenCache {
	return &MemoryTokenCache{}
}

// Get returns the cached token while it is still fresh.
func (c *MemoryTokenCache) Get(_ context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" || time.Now().After(c.expires) {
		return "", nil
	}
	return c.token, nil
}

// Set stores the token until its TTL passes.
func (c *MemoryTokenCache) Set(_ context.Context, token string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.expires = time.Now().Add(ttl)
	return nil
}

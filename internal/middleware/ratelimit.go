package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRatelimitRate is used when no rate limit row is stored, in ulule/limiter format
const DefaultRatelimitRate = "100-M"

// RedisRateLimiter owns the Redis client that backs the rate limit counters
type RedisRateLimiter struct {
	client *redis.Client
}

// NewRedisRateLimiter connects to redisURL and verifies it answers
func NewRedisRateLimiter(redisURL string) (*RedisRateLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRateLimiter{client: client}, nil
}

// Client returns the underlying client, shared with the preference store
func (r *RedisRateLimiter) Client() *redis.Client {
	return r.client
}

// Close closes the Redis connection
func (r *RedisRateLimiter) Close() error {
	return r.client.Close()
}

// Ping checks if Redis is reachable
func (r *RedisRateLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

package preferences

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/benvon/deerdiary/internal/models"
	"github.com/redis/go-redis/v9"
)

// DarkModeKey is the Redis key holding the dark mode flag
const DarkModeKey = "deerdiary:preferences:dark_mode"

// Client is the subset of the Redis client the store uses
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// ThemeStore persists the dark mode flag in Redis
type ThemeStore struct {
	client Client
}

// NewThemeStore creates a store on an existing client
func NewThemeStore(client Client) *ThemeStore {
	return &ThemeStore{client: client}
}

// Dial connects to redisURL and returns the client with a store on it
func Dial(ctx context.Context, redisURL string) (*redis.Client, *ThemeStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, nil, errors.Join(fmt.Errorf("failed to connect to Redis: %w", err), client.Close())
	}
	return client, NewThemeStore(client), nil
}

// DarkMode returns the stored flag; a missing key reads as false
func (s *ThemeStore) DarkMode(ctx context.Context) (bool, error) {
	val, err := s.client.Get(ctx, DarkModeKey).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read dark mode: %w", err)
	}
	dark, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid dark mode value %q: %w", val, err)
	}
	return dark, nil
}

// SetDarkMode stores the flag with no expiry
func (s *ThemeStore) SetDarkMode(ctx context.Context, dark bool) error {
	if err := s.client.Set(ctx, DarkModeKey, strconv.FormatBool(dark), 0).Err(); err != nil {
		return fmt.Errorf("failed to store dark mode: %w", err)
	}
	return nil
}

// Theme returns the stored flag with the stroke style it implies
func (s *ThemeStore) Theme(ctx context.Context) (models.ThemePreference, error) {
	dark, err := s.DarkMode(ctx)
	if err != nil {
		return models.ThemePreference{}, err
	}
	return models.NewThemePreference(dark), nil
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cardscout/backend/internal/domain"
)

// Redis is an offer cache backed by a Redis server, for deployments where
// cached search results should survive process restarts. Redis handles entry
// expiry itself via SET with expiration.
type Redis struct {
	client *redis.Client
}

// NewRedis parses redisURL, verifies connectivity, and returns a Redis-backed
// offer cache.
func NewRedis(ctx context.Context, redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Redis{client: client}, nil
}

// redisKey mirrors the memory cache key scheme under a readable namespace.
func redisKey(store, cardName string) string {
	return fmt.Sprintf("offers:%s:%s", store, normalizeCardName(cardName))
}

// Get returns the cached offers for (store, cardName). Absent keys and
// payloads that no longer unmarshal both count as a miss; a corrupt payload
// is deleted so it cannot poison later reads.
func (c *Redis) Get(ctx context.Context, store, cardName string) ([]domain.Offer, error) {
	key := redisKey(store, cardName)

	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheMiss, err)
	}

	var offers []domain.Offer
	if err := json.Unmarshal(payload, &offers); err != nil {
		c.client.Del(ctx, key)
		return nil, fmt.Errorf("%w: corrupt entry: %v", domain.ErrCacheMiss, err)
	}

	return offers, nil
}

// Put stores offers for (store, cardName) with the given TTL.
func (c *Redis) Put(ctx context.Context, store, cardName string, offers []domain.Offer, ttl time.Duration) error {
	payload, err := json.Marshal(offers)
	if err != nil {
		return fmt.Errorf("marshal offers: %w", err)
	}
	return c.client.Set(ctx, redisKey(store, cardName), payload, ttl).Err()
}

// Invalidate removes all entries for the given store, or every offer entry
// when store is empty, and returns the number removed.
func (c *Redis) Invalidate(ctx context.Context, store string) (int, error) {
	pattern := "offers:*"
	if store != "" {
		pattern = fmt.Sprintf("offers:%s:*", store)
	}

	count := 0
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return count, err
		}
		count++
	}
	if err := iter.Err(); err != nil {
		return count, err
	}

	return count, nil
}

// Close releases the underlying Redis connection.
func (c *Redis) Close() error {
	return c.client.Close()
}

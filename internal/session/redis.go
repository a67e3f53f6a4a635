// Package session provides widget.Store implementations. The Redis store is
// the production one; the memory store backs tests and single-instance dev.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/afmejia23/reviews-and-ratings/internal/widget"
)

const keyPrefix = "widget:session:"

// RedisStore persists widget session state in Redis with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves persisted session state by ID.
func (s *RedisStore) Get(ctx context.Context, id string) (widget.PersistedState, error) {
	key := keyPrefix + id

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return widget.PersistedState{}, widget.ErrSessionNotFound
		}
		return widget.PersistedState{}, fmt.Errorf("redis get session: %w", err)
	}

	var state widget.PersistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return widget.PersistedState{}, fmt.Errorf("unmarshal session: %w", err)
	}

	return state, nil
}

// Save writes session state with the configured TTL. Every save renews the
// TTL, so a session stays alive as long as the shopper keeps interacting.
func (s *RedisStore) Save(ctx context.Context, id string, state widget.PersistedState) error {
	key := keyPrefix + id

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}

	return nil
}

// Delete removes a session from Redis.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	key := keyPrefix + id

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}

	return nil
}

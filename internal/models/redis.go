package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisPreferencePrefix = "marquee:pref:"

// RedisPreferences stores local preferences in Redis instead of the bolt file
type RedisPreferences struct {
	client *redis.Client
}

// NewRedisPreferences connects to Redis and verifies the connection
func NewRedisPreferences(ctx context.Context, addr, password string, db int) (*RedisPreferences, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPreferences{client: client}, nil
}

// Close closes the Redis connection
func (r *RedisPreferences) Close() error {
	return r.client.Close()
}

// LoadPreference decodes the value stored under key into dst.
// Returns false when the key has never been written.
func (r *RedisPreferences) LoadPreference(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := r.client.Get(ctx, redisPreferencePrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read preference %q: %w", key, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode preference %q: %w", key, err)
	}
	return true, nil
}

// SavePreference replaces the value stored under key. Preferences never expire.
func (r *RedisPreferences) SavePreference(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode preference %q: %w", key, err)
	}
	return r.client.Set(ctx, redisPreferencePrefix+key, data, 0).Err()
}

// DeletePreference removes key; deleting a missing key is not an error
func (r *RedisPreferences) DeletePreference(ctx context.Context, key string) error {
	return r.client.Del(ctx, redisPreferencePrefix+key).Err()
}

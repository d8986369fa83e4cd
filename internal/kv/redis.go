package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every bucket key in Redis.
const KeyPrefix = "resnav:bucket:"

// BucketKey returns the Redis key for a bucket.
func BucketKey(name string) string {
	return KeyPrefix + name
}

// Redis is a go-redis backed Store. Buckets have no TTL: they are the
// primary copy, not a cache.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed store around an established client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, BucketKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bucket %s: %w", key, err)
	}
	return data, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, BucketKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save bucket %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, BucketKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete bucket %s: %w", key, err)
	}
	return nil
}

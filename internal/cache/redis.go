package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const versionKeyPrefix = "settleup:version:"

// RedisStore keeps entries and version counters in Redis
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis instance at url and pings it
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Version(ctx context.Context, scope string) (int64, error) {
	v, err := s.client.Get(ctx, versionKeyPrefix+scope).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read version of %s: %w", scope, err)
	}
	return v, nil
}

func (s *RedisStore) Bump(ctx context.Context, scope string) (int64, error) {
	v, err := s.client.Incr(ctx, versionKeyPrefix+scope).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to bump version of %s: %w", scope, err)
	}
	return v, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

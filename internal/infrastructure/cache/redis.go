package cache

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/johnquangdev/earnings-transcripts/pkg/config"
	"github.com/johnquangdev/earnings-transcripts/pkg/retry"
)

// NewRedisClient connects to Redis, retrying until it answers PING
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := retry.Connect(ctx, "redis", retry.DefaultMaxElapsed, func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Println("✅ Redis connected successfully")
	return client, nil
}

// RedisParameterStore resolves parameters stored as plain Redis string keys,
// using the full parameter path as the key
type RedisParameterStore struct {
	client redis.Cmdable
}

var _ config.ParameterStore = (*RedisParameterStore)(nil)

// NewRedisParameterStore creates a parameter store over client
func NewRedisParameterStore(client redis.Cmdable) *RedisParameterStore {
	return &RedisParameterStore{client: client}
}

// GetParameter implements config.ParameterStore. A missing key resolves to "".
func (s *RedisParameterStore) GetParameter(ctx context.Context, name string) (string, error) {
	value, err := s.client.Get(ctx, name).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read parameter %s: %w", name, err)
	}
	return value, nil
}

// PutParameter stores a parameter without expiry
func (s *RedisParameterStore) PutParameter(ctx context.Context, name, value string) error {
	if err := s.client.Set(ctx, name, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write parameter %s: %w", name, err)
	}
	return nil
}

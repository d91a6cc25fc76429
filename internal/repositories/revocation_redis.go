package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis"
)

const revokedKeyPrefix = "revoked:"

// RedisRevocationStore keeps revoked token ids as Redis keys that expire
// together with the token.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore connects to the Redis instance at url.
func NewRedisRevocationStore(url string) (*RedisRevocationStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisRevocationStore{client: client}, nil
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.WithContext(ctx).Set(revokedKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token %s: %w", tokenID, err)
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.WithContext(ctx).Exists(revokedKeyPrefix + tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token %s: %w", tokenID, err)
	}
	return n > 0, nil
}

// Close closes the Redis client.
func (s *RedisRevocationStore) Close() error {
	return s.client.Close()
}

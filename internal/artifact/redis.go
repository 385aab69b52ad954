package artifact

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps artifacts as Redis string values, for containers where
// the load generator fetches plans over the network.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
	Namer     Namer
}

// NewRedisStore creates a RedisStore. A zero ttl keeps artifacts forever.
func NewRedisStore(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// Key returns the Redis key an artifact name is stored under.
func (s *RedisStore) Key(area, name string) string {
	return s.keyPrefix + area + ":" + name
}

// Store implements Store. Existing keys are never overwritten.
func (s *RedisStore) Store(ctx context.Context, area, fileType string, payload []byte) (Handle, error) {
	name, createdAt := s.Namer.Name(area, fileType)
	key := s.Key(area, name)

	ok, err := s.client.SetNX(ctx, key, payload, s.ttl).Result()
	if err != nil {
		return Handle{}, fmt.Errorf("failed to store artifact %s: %w", key, err)
	}
	if !ok {
		return Handle{}, fmt.Errorf("%w: %s", ErrNameTaken, key)
	}

	return newHandle(area, fileType, name, "redis://"+key, len(payload), createdAt), nil
}

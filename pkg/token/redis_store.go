package token

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "letter_token:"

// RedisStore is the production token store. GETDEL gives the one-time
// semantics across instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Put(ctx context.Context, token, path string) error {
	return s.client.Set(ctx, keyPrefix+token, path, s.ttl).Err()
}

func (s *RedisStore) Take(ctx context.Context, token string) (string, bool, error) {
	path, err := s.client.GetDel(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

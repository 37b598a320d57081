package lineup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultLikesTTL is how long an untouched likes list survives in Redis.
const DefaultLikesTTL = 2 * 7 * 24 * time.Hour

const redisLikesPrefix = "likes-"

// RedisStore is a Store keeping one JSON value per token under likes-<token>.
// Every write refreshes the expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps client. A non-positive ttl means DefaultLikesTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultLikesTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func redisLikesKey(token string) string {
	return redisLikesPrefix + token
}

// GetLikes implements Store.GetLikes.
func (s *RedisStore) GetLikes(ctx context.Context, token string) ([]Like, bool, error) {
	val, err := s.client.Get(ctx, redisLikesKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var likes []Like
	if err := json.Unmarshal(val, &likes); err != nil {
		return nil, false, fmt.Errorf("decode likes of %s: %w", token, err)
	}
	return likes, true, nil
}

// SetLikes implements Store.SetLikes.
func (s *RedisStore) SetLikes(ctx context.Context, token string, likes []Like) error {
	payload, err := json.Marshal(likes)
	if err != nil {
		return fmt.Errorf("encode likes: %w", err)
	}
	return s.client.Set(ctx, redisLikesKey(token), payload, s.ttl).Err()
}

// CountTokens implements Store.CountTokens by scanning the likes- keyspace.
func (s *RedisStore) CountTokens(ctx context.Context) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, redisLikesPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	return n, iter.Err()
}

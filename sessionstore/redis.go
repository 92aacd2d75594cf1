package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"quotebuilder/services"
)

const redisKeyPrefix = "quote_session:"

// RedisStore keeps sessions as JSON values that expire after ttl of inactivity.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects to redisURL and checks the connection.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisStoreFromClient(rdb, ttl), nil
}

// NewRedisStoreFromClient wraps an existing client. A non-positive ttl keeps
// sessions until they are cleared.
func NewRedisStoreFromClient(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, key string) (services.QuoteSession, error) {
	val, err := s.rdb.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return services.QuoteSession{State: services.QuoteEmpty}, nil
		}
		return services.QuoteSession{}, fmt.Errorf("failed to get quote session: %w", err)
	}

	var sess services.QuoteSession
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return services.QuoteSession{}, fmt.Errorf("failed to unmarshal quote session: %w", err)
	}
	if sess.State == "" {
		sess.State = services.QuoteEmpty
	}
	return sess, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, session services.QuoteSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal quote session: %w", err)
	}
	return s.rdb.Set(ctx, redisKeyPrefix+key, data, s.ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, redisKeyPrefix+key).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "storefront:session:"

type RedisBackend struct {
	Client *redis.Client
	TTL    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings within 5s.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{Client: client, TTL: ttl}
}

func (b *RedisBackend) Scope(visitorID string) Store {
	return &redisStore{b: b, key: redisPrefix + visitorID}
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.Client.Ping(ctx).Err()
}

// redisStore keeps a visitor's keys in one hash; the TTL slides on every write.
type redisStore struct {
	b   *RedisBackend
	key string
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.b.Client.HGet(ctx, s.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	_, err := s.b.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.key, key, value)
		if s.b.TTL > 0 {
			p.Expire(ctx, s.key, s.b.TTL)
		}
		return nil
	})
	return err
}

func (s *redisStore) Clear(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return s.b.Client.Del(ctx, s.key).Err()
	}
	return s.b.Client.HDel(ctx, s.key, keys...).Err()
}

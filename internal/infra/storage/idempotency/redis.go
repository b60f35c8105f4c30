package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions параметры подключения к Redis
type RedisOptions struct {
	Address  string
	Password string
	DB       int
	PoolSize int
}

// NewRedisClient создает новый клиент Redis
func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})
}

// RedisStore хранит ключи в Redis через SETNX
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, prefix: "venuecrm:idempotency:", ttl: ttl}
}

func (s *RedisStore) Reserve(ctx context.Context, key string) (int64, bool, error) {
	ok, err := s.client.SetNX(ctx, s.prefix+key, pendingValue, s.ttl).Result()
	if err != nil {
		return 0, false, fmt.Errorf("%w: setnx: %w", ErrStore, err)
	}
	if ok {
		return 0, true, nil
	}

	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		// ключ истёк между SETNX и GET
		return s.Reserve(ctx, key)
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: get: %w", ErrStore, err)
	}

	return parseValue(val)
}

func (s *RedisStore) Complete(ctx context.Context, key string, id int64) error {
	if err := s.client.Set(ctx, s.prefix+key, strconv.FormatInt(id, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set: %w", ErrStore, err)
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: del: %w", ErrStore, err)
	}
	return nil
}

func parseValue(val string) (int64, bool, error) {
	if val == pendingValue {
		return 0, false, ErrInProgress
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: corrupted value %q", ErrStore, val)
	}
	return id, false, nil
}

//go:generate go run go.uber.org/mock/mockgen -source=profile_cache.go -destination=../../mocks/mock_profile_cache.go -package=mocks

// Package cache keeps account profiles between sessions.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/rtcroom/internal/core"
	"github.com/dkeye/rtcroom/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var ErrCacheMiss = errors.New("cache miss")

// Store is the byte store behind ProfileCache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// ProfileCache is a read-through core.ProfileLookup. Store failures fall back
// to the wrapped lookup.
type ProfileCache struct {
	next   core.ProfileLookup
	store  Store
	prefix string
	ttl    time.Duration
}

func NewProfileCache(next core.ProfileLookup, store Store, prefix string, ttl time.Duration) *ProfileCache {
	return &ProfileCache{next: next, store: store, prefix: prefix, ttl: ttl}
}

func (c *ProfileCache) key(account string) string {
	return fmt.Sprintf("%s:%s", c.prefix, account)
}

func (c *ProfileCache) Profile(ctx context.Context, account string) (*domain.Profile, error) {
	logger := log.With().Str("module", "cache.profile").Str("account", account).Logger()

	data, err := c.store.Get(ctx, c.key(account))
	switch {
	case err == nil:
		var p domain.Profile
		if err := json.Unmarshal(data, &p); err == nil {
			logger.Debug().Msg("hit")
			return &p, nil
		}
		logger.Warn().Msg("corrupt entry")
	case errors.Is(err, ErrCacheMiss):
		logger.Debug().Msg("miss")
	default:
		logger.Warn().Err(err).Msg("store get")
	}

	p, err := c.next.Profile(ctx, account)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(p); err == nil {
		if err := c.store.Set(ctx, c.key(account), data, c.ttl); err != nil {
			logger.Warn().Err(err).Msg("store set")
		}
	}
	return p, nil
}

// RedisStore is a Store on a redis server.
type RedisStore struct {
	client *redis.Client
}

type RedisOptions struct {
	Address  string
	Password string
	DB       int
}

func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

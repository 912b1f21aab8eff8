// Package cache keeps completion-service candidates in Redis so repeated runs over the
// same documents skip the model round-trip.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joseph-ayodele/invoice-extractor/internal/llm"
)

const defaultPrefix = "invoice-extractor:candidate:"

// ErrCacheMiss indicates a cache miss.
var ErrCacheMiss = errors.New("cache miss")

// CandidateCache stores candidates by key.
type CandidateCache interface {
	Get(ctx context.Context, key string) (llm.Candidate, error)
	Set(ctx context.Context, key string, c llm.Candidate) error
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// RedisCache implements CandidateCache on Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache connects and pings Redis.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisCacheFromClient(client, cfg.TTL, cfg.Prefix), nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration, prefix string) *RedisCache {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisCache{client: client, ttl: ttl, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) (llm.Candidate, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var cand llm.Candidate
	if err := json.Unmarshal(val, &cand); err != nil {
		return nil, fmt.Errorf("decode cached candidate: %w", err)
	}
	return cand, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, cand llm.Candidate) error {
	b, err := json.Marshal(cand)
	if err != nil {
		return fmt.Errorf("encode candidate: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/internal/llm"
)

func setupTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCacheFromClient(client, time.Hour, ""), mr
}

type countingExtractor struct {
	cand  llm.Candidate
	ok    bool
	calls int
}

func (c *countingExtractor) ExtractCandidate(context.Context, string) (llm.Candidate, bool) {
	c.calls++
	return c.cand, c.ok
}

func TestRedisCache_GetSet(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", llm.Candidate{"invoice_number": "1", "total_amount": 2.5}))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, llm.Candidate{"invoice_number": "1", "total_amount": 2.5}, got)

	assert.True(t, mr.Exists(defaultPrefix+"k"))
	assert.Equal(t, time.Hour, mr.TTL(defaultPrefix+"k"))

	mr.FastForward(2 * time.Hour)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisCache(context.Background(), RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestCachedExtractor_HitSkipsModel(t *testing.T) {
	c, _ := setupTestCache(t)
	next := &countingExtractor{cand: llm.Candidate{"invoice_number": "42"}, ok: true}
	e := NewCachedExtractor(next, c, "m", 4000, nil)
	ctx := context.Background()

	first, ok := e.ExtractCandidate(ctx, "content")
	require.True(t, ok)
	second, ok := e.ExtractCandidate(ctx, "content")
	require.True(t, ok)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
}

func TestCachedExtractor_FailureNotCached(t *testing.T) {
	c, mr := setupTestCache(t)
	next := &countingExtractor{ok: false}
	e := NewCachedExtractor(next, c, "m", 4000, nil)

	_, ok := e.ExtractCandidate(context.Background(), "content")
	assert.False(t, ok)
	assert.Empty(t, mr.Keys())

	_, _ = e.ExtractCandidate(context.Background(), "content")
	assert.Equal(t, 2, next.calls)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (llm.Candidate, error) {
	return nil, errors.New("down")
}

func (brokenCache) Set(context.Context, string, llm.Candidate) error {
	return errors.New("down")
}

func TestCachedExtractor_CacheErrorsIgnored(t *testing.T) {
	next := &countingExtractor{cand: llm.Candidate{"currency": "CHF"}, ok: true}
	e := NewCachedExtractor(next, brokenCache{}, "m", 4000, nil)

	cand, ok := e.ExtractCandidate(context.Background(), "content")
	require.True(t, ok)
	assert.Equal(t, "CHF", cand["currency"])
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("a", 4000, "b"), Key("a", 4000, "b"))
	assert.NotEqual(t, Key("a", 4000, "b"), Key("b", 4000, "b"))
	assert.NotEqual(t, Key("ab", 4000, ""), Key("a", 4000, "b"))
	assert.NotEqual(t, Key("a", 4000, "b"), Key("a", 2000, "b"))
	assert.Len(t, Key("a", 4000, "b"), 64)
}

func TestCachedExtractor_PromptLimitChangeMisses(t *testing.T) {
	c, _ := setupTestCache(t)
	next := &countingExtractor{cand: llm.Candidate{"invoice_number": "42"}, ok: true}
	ctx := context.Background()

	_, ok := NewCachedExtractor(next, c, "m", 4000, nil).ExtractCandidate(ctx, "content")
	require.True(t, ok)
	_, ok = NewCachedExtractor(next, c, "m", 2000, nil).ExtractCandidate(ctx, "content")
	require.True(t, ok)

	assert.Equal(t, 2, next.calls)
}

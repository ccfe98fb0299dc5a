package redisstore_test

import (
	"context"
	"testing"
	"time"

	"stockprices-service/internal/domain"
	redisstore "stockprices-service/internal/infrastructure/redis"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, ttl time.Duration, now func() time.Time) *redisstore.PriceCache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return redisstore.New(client, ttl, redisstore.WithNow(now))
}

func TestPriceCache_PutGet(t *testing.T) {
	t0 := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	c := newCache(t, 24*time.Hour, func() time.Time { return t0 })
	ctx := context.Background()

	_, ok := c.Get(ctx, "AAPL")
	require.False(t, ok)

	c.Put(ctx, domain.Quote{Symbol: "AAPL", Price: 150.25, UpdatedAt: t0, Source: "finnhub"})
	q, ok := c.Get(ctx, "AAPL")
	require.True(t, ok)
	require.InDelta(t, 150.25, q.Price, 1e-9)
	require.Equal(t, "finnhub", q.Source)
	require.True(t, q.UpdatedAt.Equal(t0))
}

func TestPriceCache_TTLExpiryStillStale(t *testing.T) {
	t0 := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	now := t0
	c := newCache(t, time.Hour, func() time.Time { return now })
	ctx := context.Background()

	c.Put(ctx, domain.Quote{Symbol: "AAPL", Price: 150.25, UpdatedAt: t0, Source: "finnhub"})

	now = t0.Add(2 * time.Hour)
	_, ok := c.Get(ctx, "AAPL")
	require.False(t, ok)

	q, ok := c.GetStale(ctx, "AAPL")
	require.True(t, ok)
	require.InDelta(t, 150.25, q.Price, 1e-9)
}

func TestPriceCache_PutOverwrites(t *testing.T) {
	t0 := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	c := newCache(t, time.Hour, func() time.Time { return t0 })
	ctx := context.Background()

	c.Put(ctx, domain.Quote{Symbol: "AAPL", Price: 150.0, UpdatedAt: t0, Source: "finnhub"})
	c.Put(ctx, domain.Quote{Symbol: "AAPL", Price: 151.0, UpdatedAt: t0, Source: "yahoo"})

	q, ok := c.Get(ctx, "AAPL")
	require.True(t, ok)
	require.InDelta(t, 151.0, q.Price, 1e-9)
	require.Equal(t, "yahoo", q.Source)
}

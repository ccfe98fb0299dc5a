package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"stockprices-service/internal/application"
	"stockprices-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

var _ application.PriceCache = (*PriceCache)(nil)

// stalenessFactor scales the physical Redis expiry above the
// freshness TTL so entries remain reachable through GetStale after
// they stop being fresh.
const stalenessFactor = 7

type cachedPrice struct {
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `json:"source"`
	CachedAt  time.Time `json:"cached_at"`
}

// PriceCache is a Redis-backed PriceCache for deployments where
// several processes should share one price cache. Freshness is
// evaluated on read; Redis handles eviction, so Cleanup is a no-op.
type PriceCache struct {
	Client *redis.Client
	TTL    time.Duration

	now func() time.Time
}

type Option func(*PriceCache)

func WithNow(now func() time.Time) Option { return func(c *PriceCache) { c.now = now } }

func New(client *redis.Client, ttl time.Duration, opts ...Option) *PriceCache {
	c := &PriceCache{Client: client, TTL: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func key(sym domain.Symbol) string { return "price:" + string(sym) }

func (c *PriceCache) Get(ctx context.Context, sym domain.Symbol) (domain.Quote, bool) {
	q, at, ok := c.load(ctx, sym)
	if !ok || c.now().Sub(at) > c.TTL {
		return domain.Quote{}, false
	}
	return q, true
}

func (c *PriceCache) GetStale(ctx context.Context, sym domain.Symbol) (domain.Quote, bool) {
	q, _, ok := c.load(ctx, sym)
	return q, ok
}

func (c *PriceCache) Put(ctx context.Context, q domain.Quote) {
	body, err := json.Marshal(cachedPrice{
		Price:     q.Price,
		UpdatedAt: q.UpdatedAt,
		Source:    q.Source,
		CachedAt:  c.now(),
	})
	if err != nil {
		return
	}
	// Cache write failures are soft: the resolver still has the
	// persistent store underneath.
	_ = c.Client.Set(ctx, key(q.Symbol), body, stalenessFactor*c.TTL).Err()
}

func (c *PriceCache) load(ctx context.Context, sym domain.Symbol) (domain.Quote, time.Time, bool) {
	raw, err := c.Client.Get(ctx, key(sym)).Bytes()
	if err != nil {
		return domain.Quote{}, time.Time{}, false
	}
	var entry cachedPrice
	if err := json.Unmarshal(raw, &entry); err != nil {
		return domain.Quote{}, time.Time{}, false
	}
	return domain.Quote{
		Symbol:    sym,
		Price:     entry.Price,
		UpdatedAt: entry.UpdatedAt,
		Source:    entry.Source,
	}, entry.CachedAt, true
}

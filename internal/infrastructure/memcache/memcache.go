package memcache

import (
	"context"
	"sort"
	"sync"
	"time"

	"stockprices-service/internal/application"
	"stockprices-service/internal/domain"
)

var _ application.PriceCache = (*PriceCache)(nil)
var _ application.NameCache = (*NameCache)(nil)

type priceEntry struct {
	quote domain.Quote
	at    time.Time
}

// PriceCache is a bounded TTL map from symbol to last resolved quote.
// Entries past the TTL are misses for Get but remain visible to
// GetStale until evicted. When the entry count exceeds MaxEntries a
// cleanup pass removes the oldest 20% by insertion time.
type PriceCache struct {
	ttl        time.Duration
	maxEntries int

	mu      sync.RWMutex
	entries map[domain.Symbol]priceEntry

	now func() time.Time
}

type PriceOption func(*PriceCache)

func WithPriceNow(now func() time.Time) PriceOption {
	return func(c *PriceCache) { c.now = now }
}

func NewPriceCache(ttl time.Duration, maxEntries int, opts ...PriceOption) *PriceCache {
	c := &PriceCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    map[domain.Symbol]priceEntry{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *PriceCache) Get(_ context.Context, sym domain.Symbol) (domain.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[sym]
	if !ok || c.now().Sub(e.at) > c.ttl {
		return domain.Quote{}, false
	}
	return e.quote, true
}

func (c *PriceCache) GetStale(_ context.Context, sym domain.Symbol) (domain.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[sym]
	if !ok {
		return domain.Quote{}, false
	}
	return e.quote, true
}

func (c *PriceCache) Put(_ context.Context, q domain.Quote) {
	c.mu.Lock()
	c.entries[q.Symbol] = priceEntry{quote: q, at: c.now()}
	c.mu.Unlock()
	c.Cleanup()
}

// Cleanup bounds the cache. It runs opportunistically after writes,
// not on a timer.
func (c *PriceCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxEntries <= 0 || len(c.entries) <= c.maxEntries {
		return
	}
	keep := c.maxEntries * 8 / 10
	type aged struct {
		sym domain.Symbol
		at  time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for sym, e := range c.entries {
		all = append(all, aged{sym, e.at})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].at.Before(all[j].at) })
	for _, a := range all[:len(all)-keep] {
		delete(c.entries, a.sym)
	}
}

func (c *PriceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

type nameEntry struct {
	name string
	at   time.Time
}

// NameCache holds resolved company names with the same TTL and bound
// mechanics as PriceCache.
type NameCache struct {
	ttl        time.Duration
	maxEntries int

	mu      sync.RWMutex
	entries map[domain.Symbol]nameEntry

	now func() time.Time
}

type NameOption func(*NameCache)

func WithNameNow(now func() time.Time) NameOption {
	return func(c *NameCache) { c.now = now }
}

func NewNameCache(ttl time.Duration, maxEntries int, opts ...NameOption) *NameCache {
	c := &NameCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    map[domain.Symbol]nameEntry{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *NameCache) Get(sym domain.Symbol) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[sym]
	if !ok || c.now().Sub(e.at) > c.ttl {
		return "", false
	}
	return e.name, true
}

func (c *NameCache) GetStale(sym domain.Symbol) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[sym]
	if !ok {
		return "", false
	}
	return e.name, true
}

func (c *NameCache) Put(sym domain.Symbol, name string) {
	c.mu.Lock()
	c.entries[sym] = nameEntry{name: name, at: c.now()}
	if c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		keep := c.maxEntries * 8 / 10
		type aged struct {
			sym domain.Symbol
			at  time.Time
		}
		all := make([]aged, 0, len(c.entries))
		for s, e := range c.entries {
			all = append(all, aged{s, e.at})
		}
		sort.Slice(all, func(i, j int) bool { return all[i].at.Before(all[j].at) })
		for _, a := range all[:len(all)-keep] {
			delete(c.entries, a.sym)
		}
	}
	c.mu.Unlock()
}

package ratelimit

import (
	"context"
	"sync"
	"time"

	"stockprices-service/internal/application"
)

var _ application.RateGate = (*Gate)(nil)

// Gate enforces a global minimum interval between outbound requests
// and tracks per-provider backoff windows set after rate-limit
// responses. All state is guarded by a single mutex so concurrent
// resolutions cannot both skip the interval wait.
type Gate struct {
	interval time.Duration

	mu           sync.Mutex
	last         time.Time
	backoffUntil map[string]time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

type Option func(*Gate)

// WithNow replaces the wall clock, for tests.
func WithNow(now func() time.Time) Option { return func(g *Gate) { g.now = now } }

// WithSleep replaces the blocking sleep, for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(g *Gate) { g.sleep = sleep }
}

func NewGate(minInterval time.Duration, opts ...Option) *Gate {
	g := &Gate{
		interval:     minInterval,
		backoffUntil: map[string]time.Time{},
		now:          time.Now,
		sleep:        sleepCtx,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Wait blocks until at least the configured interval has elapsed
// since the previous outbound request, then claims the slot. The
// check-and-claim is atomic; a concurrent waiter loops until it wins
// a slot of its own. Returns only ctx errors.
func (g *Gate) Wait(ctx context.Context) error {
	if g.interval <= 0 {
		g.mu.Lock()
		g.last = g.now()
		g.mu.Unlock()
		return nil
	}
	for {
		g.mu.Lock()
		now := g.now()
		wait := g.last.Add(g.interval).Sub(now)
		if wait <= 0 {
			g.last = now
			g.mu.Unlock()
			return nil
		}
		g.mu.Unlock()
		if err := g.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Allow reports whether the provider is outside its backoff window.
// Callers skip disallowed providers; they do not wait for them.
func (g *Gate) Allow(provider string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.now().Before(g.backoffUntil[provider])
}

// RecordRateLimit opens (or extends) the provider's backoff window,
// anchored at the current time, i.e. response completion. An existing
// later deadline is never moved earlier.
func (g *Gate) RecordRateLimit(provider string, retryAfter time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	until := g.now().Add(retryAfter)
	if until.After(g.backoffUntil[provider]) {
		g.backoffUntil[provider] = until
	}
}

// RecordSuccess clears the provider's backoff window.
func (g *Gate) RecordSuccess(provider string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.backoffUntil, provider)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

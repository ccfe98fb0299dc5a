package application

import (
	"context"
	"time"

	"stockprices-service/internal/domain"
)

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }

type fakeCache struct {
	fresh map[domain.Symbol]domain.Quote
	stale map[domain.Symbol]domain.Quote
	puts  []domain.Quote
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		fresh: map[domain.Symbol]domain.Quote{},
		stale: map[domain.Symbol]domain.Quote{},
	}
}

func (f *fakeCache) Get(_ context.Context, sym domain.Symbol) (domain.Quote, bool) {
	q, ok := f.fresh[sym]
	return q, ok
}

func (f *fakeCache) GetStale(_ context.Context, sym domain.Symbol) (domain.Quote, bool) {
	if q, ok := f.fresh[sym]; ok {
		return q, true
	}
	q, ok := f.stale[sym]
	return q, ok
}

func (f *fakeCache) Put(_ context.Context, q domain.Quote) {
	f.fresh[q.Symbol] = q
	f.puts = append(f.puts, q)
}

type fakeStore struct {
	rows    map[domain.Symbol]domain.Quote
	saves   []domain.Quote
	saveErr error
	listErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[domain.Symbol]domain.Quote{}}
}

func (f *fakeStore) Load(_ context.Context, sym domain.Symbol) (domain.Quote, error) {
	q, ok := f.rows[sym]
	if !ok {
		return domain.Quote{}, ErrNotFound
	}
	return q, nil
}

func (f *fakeStore) Save(_ context.Context, q domain.Quote) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.rows[q.Symbol] = q
	f.saves = append(f.saves, q)
	return nil
}

func (f *fakeStore) ListSymbols(_ context.Context, limit int) ([]domain.Symbol, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Symbol, 0, len(f.rows))
	for sym := range f.rows {
		if len(out) == limit {
			break
		}
		out = append(out, sym)
	}
	return out, nil
}

type rateLimitRecord struct {
	provider   string
	retryAfter time.Duration
}

type fakeGate struct {
	blocked    map[string]bool
	waits      int
	waitErr    error
	rateLimits []rateLimitRecord
	successes  []string
}

func newFakeGate() *fakeGate { return &fakeGate{blocked: map[string]bool{}} }

func (f *fakeGate) Wait(context.Context) error {
	f.waits++
	return f.waitErr
}

func (f *fakeGate) Allow(provider string) bool { return !f.blocked[provider] }

func (f *fakeGate) RecordRateLimit(provider string, retryAfter time.Duration) {
	f.rateLimits = append(f.rateLimits, rateLimitRecord{provider, retryAfter})
	f.blocked[provider] = true
}

func (f *fakeGate) RecordSuccess(provider string) {
	f.successes = append(f.successes, provider)
	delete(f.blocked, provider)
}

type fakeQuoter struct {
	name  string
	price float64
	err   error
	calls int
}

func (f *fakeQuoter) Name() string { return f.name }

func (f *fakeQuoter) Quote(_ context.Context, sym domain.Symbol) (domain.Quote, error) {
	f.calls++
	if f.err != nil {
		return domain.Quote{}, f.err
	}
	return domain.Quote{Symbol: sym, Price: f.price, Source: f.name}, nil
}

type fakeProfile struct {
	name    string
	company string
	err     error
	calls   int
}

func (f *fakeProfile) Name() string { return f.name }

func (f *fakeProfile) CompanyName(context.Context, domain.Symbol) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.company, nil
}

type fakeNames struct {
	fresh map[domain.Symbol]string
	stale map[domain.Symbol]string
}

func newFakeNames() *fakeNames {
	return &fakeNames{fresh: map[domain.Symbol]string{}, stale: map[domain.Symbol]string{}}
}

func (f *fakeNames) Get(sym domain.Symbol) (string, bool) {
	n, ok := f.fresh[sym]
	return n, ok
}

func (f *fakeNames) GetStale(sym domain.Symbol) (string, bool) {
	if n, ok := f.fresh[sym]; ok {
		return n, true
	}
	n, ok := f.stale[sym]
	return n, ok
}

func (f *fakeNames) Put(sym domain.Symbol, name string) { f.fresh[sym] = name }

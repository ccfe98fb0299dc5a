package httpserver

import (
	"context"
	"time"

	"stockprices-service/internal/application"
	"stockprices-service/internal/domain"
	"stockprices-service/internal/infrastructure/memcache"
)

var _ application.PriceStore = (*fakePriceStore)(nil)
var _ application.Quoter = (*fakeQuoter)(nil)
var _ application.ProfileSource = (*fakeQuoter)(nil)
var _ application.RateGate = openGate{}

type fakePriceStore struct {
	rows map[domain.Symbol]domain.Quote
}

func (f *fakePriceStore) Load(_ context.Context, sym domain.Symbol) (domain.Quote, error) {
	q, ok := f.rows[sym]
	if !ok {
		return domain.Quote{}, application.ErrNotFound
	}
	return q, nil
}

func (f *fakePriceStore) Save(_ context.Context, q domain.Quote) error {
	if f.rows == nil {
		f.rows = map[domain.Symbol]domain.Quote{}
	}
	f.rows[q.Symbol] = q
	return nil
}

func (f *fakePriceStore) ListSymbols(_ context.Context, limit int) ([]domain.Symbol, error) {
	var syms []domain.Symbol
	for sym := range f.rows {
		if len(syms) == limit {
			break
		}
		syms = append(syms, sym)
	}
	return syms, nil
}

type fakeQuoter struct {
	prices map[domain.Symbol]float64
	names  map[domain.Symbol]string
}

func (f *fakeQuoter) Name() string { return "fake" }

func (f *fakeQuoter) Quote(_ context.Context, sym domain.Symbol) (domain.Quote, error) {
	p, ok := f.prices[sym]
	if !ok {
		return domain.Quote{}, domain.ErrPriceUnavailable
	}
	return domain.Quote{Symbol: sym, Price: p, UpdatedAt: time.Now().UTC()}, nil
}

func (f *fakeQuoter) CompanyName(_ context.Context, sym domain.Symbol) (string, error) {
	n, ok := f.names[sym]
	if !ok {
		return "", domain.ErrPriceUnavailable
	}
	return n, nil
}

type openGate struct{}

func (openGate) Wait(context.Context) error            { return nil }
func (openGate) Allow(string) bool                     { return true }
func (openGate) RecordRateLimit(string, time.Duration) {}
func (openGate) RecordSuccess(string)                  {}

func NewInMemoryService() (*application.PriceService, *fakeQuoter, *fakePriceStore) {
	q := &fakeQuoter{
		prices: map[domain.Symbol]float64{"AAPL": 187.23},
		names:  map[domain.Symbol]string{"AAPL": "Apple Inc"},
	}
	st := &fakePriceStore{rows: map[domain.Symbol]domain.Quote{}}
	svc := application.NewPriceService(
		memcache.NewPriceCache(time.Hour, 100),
		st,
		openGate{},
		[]application.Quoter{q},
		application.WithCompanyNames(q, memcache.NewNameCache(time.Hour, 100)),
	)
	return svc, q, st
}

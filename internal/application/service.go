package application

import (
	"context"
	"errors"
	"time"

	"stockprices-service/internal/domain"

	"go.uber.org/zap"
)

// PriceService resolves symbol prices through an ordered fallback
// chain: fresh cache, live providers in priority order, stale cache,
// persistent store. Absence of a price is reported as
// domain.ErrPriceUnavailable; no path panics.
type PriceService struct {
	cache     PriceCache
	store     PriceStore
	gate      RateGate
	providers []Quoter

	profile ProfileSource
	names   NameCache

	backoff time.Duration
	clock   Clock
	log     *zap.Logger
}

type Option func(*PriceService)

func WithClock(c Clock) Option        { return func(s *PriceService) { s.clock = c } }
func WithLogger(l *zap.Logger) Option { return func(s *PriceService) { s.log = l } }

// WithBackoff overrides the default backoff window applied after a
// rate-limit response that carries no Retry-After hint.
func WithBackoff(d time.Duration) Option { return func(s *PriceService) { s.backoff = d } }

// WithCompanyNames enables company-name resolution through the given
// profile source (normally the primary provider).
func WithCompanyNames(src ProfileSource, names NameCache) Option {
	return func(s *PriceService) {
		s.profile = src
		s.names = names
	}
}

func NewPriceService(cache PriceCache, store PriceStore, gate RateGate, providers []Quoter, opts ...Option) *PriceService {
	s := &PriceService{
		cache:     cache,
		store:     store,
		gate:      gate,
		providers: providers,
		backoff:   60 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// GetPrice returns the best available price for a symbol.
// A fresh cache hit returns immediately with no network calls.
func (s *PriceService) GetPrice(ctx context.Context, raw string) (domain.Quote, error) {
	sym := domain.NormalizeSymbol(raw)
	if !domain.ValidSymbol(sym) {
		return domain.Quote{}, domain.ErrInvalidSymbol
	}
	if q, ok := s.cache.Get(ctx, sym); ok {
		return q, nil
	}
	return s.resolveLive(ctx, sym)
}

// RefreshPrice forces a live resolution attempt, bypassing the fresh
// cache check. Fallback behavior is identical to GetPrice.
func (s *PriceService) RefreshPrice(ctx context.Context, raw string) (domain.Quote, error) {
	sym := domain.NormalizeSymbol(raw)
	if !domain.ValidSymbol(sym) {
		return domain.Quote{}, domain.ErrInvalidSymbol
	}
	return s.resolveLive(ctx, sym)
}

func (s *PriceService) resolveLive(ctx context.Context, sym domain.Symbol) (domain.Quote, error) {
	for _, p := range s.providers {
		if !s.gate.Allow(p.Name()) {
			s.log.Debug("provider_skipped",
				zap.String("provider", p.Name()),
				zap.String("symbol", string(sym)))
			continue
		}
		if err := s.gate.Wait(ctx); err != nil {
			// Caller gave up; stop hitting the network but still
			// fall through to the offline sources below.
			break
		}
		q, err := p.Quote(ctx, sym)
		if err != nil {
			var rl *RateLimitError
			if errors.As(err, &rl) {
				wait := rl.RetryAfter
				if wait <= 0 {
					wait = s.backoff
				}
				s.gate.RecordRateLimit(p.Name(), wait)
				s.log.Info("provider_rate_limited",
					zap.String("provider", p.Name()),
					zap.String("symbol", string(sym)),
					zap.Duration("retry_after", wait))
			} else {
				s.log.Debug("provider_failed",
					zap.String("provider", p.Name()),
					zap.String("symbol", string(sym)),
					zap.Error(err))
			}
			continue
		}
		if q.Price <= 0 {
			s.log.Debug("provider_bad_price",
				zap.String("provider", p.Name()),
				zap.String("symbol", string(sym)),
				zap.Float64("price", q.Price))
			continue
		}
		q.Symbol = sym
		if q.Source == "" {
			q.Source = p.Name()
		}
		if q.UpdatedAt.IsZero() {
			q.UpdatedAt = s.clock.Now()
		}
		s.gate.RecordSuccess(p.Name())
		s.cache.Put(ctx, q)
		if err := s.store.Save(ctx, q); err != nil {
			s.log.Warn("store_save_failed",
				zap.String("symbol", string(sym)),
				zap.Error(err))
		}
		s.log.Info("price_resolved",
			zap.String("provider", p.Name()),
			zap.String("symbol", string(sym)),
			zap.Float64("price", q.Price))
		return q, nil
	}

	// Stale cache entries are reused as-is; timestamps are not
	// rewritten because this is not a refresh.
	if q, ok := s.cache.GetStale(ctx, sym); ok {
		s.log.Info("price_from_stale_cache", zap.String("symbol", string(sym)))
		return q, nil
	}
	if q, err := s.store.Load(ctx, sym); err == nil {
		s.log.Info("price_from_store", zap.String("symbol", string(sym)))
		return q, nil
	}
	return domain.Quote{}, domain.ErrPriceUnavailable
}

// GetCompanyName returns the company name for a symbol, or the symbol
// itself when no name can be resolved. It never fails.
func (s *PriceService) GetCompanyName(ctx context.Context, raw string) string {
	sym := domain.NormalizeSymbol(raw)
	if s.profile == nil || s.names == nil {
		return string(sym)
	}
	if name, ok := s.names.Get(sym); ok {
		return name
	}
	if !s.gate.Allow(s.profile.Name()) {
		return s.nameFallback(sym)
	}
	if err := s.gate.Wait(ctx); err != nil {
		return s.nameFallback(sym)
	}
	name, err := s.profile.CompanyName(ctx, sym)
	if err != nil {
		var rl *RateLimitError
		if errors.As(err, &rl) {
			wait := rl.RetryAfter
			if wait <= 0 {
				wait = s.backoff
			}
			s.gate.RecordRateLimit(s.profile.Name(), wait)
		}
		return s.nameFallback(sym)
	}
	if name == "" {
		return s.nameFallback(sym)
	}
	s.names.Put(sym, name)
	return name
}

func (s *PriceService) nameFallback(sym domain.Symbol) string {
	if name, ok := s.names.GetStale(sym); ok {
		return name
	}
	return string(sym)
}

// RefreshKnown re-resolves up to limit symbols already present in the
// persistent store. Used by the background refresher.
func (s *PriceService) RefreshKnown(ctx context.Context, limit int) (int, error) {
	symbols, err := s.store.ListSymbols(ctx, limit)
	if err != nil {
		return 0, err
	}
	refreshed := 0
	for _, sym := range symbols {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}
		if _, err := s.RefreshPrice(ctx, string(sym)); err != nil {
			s.log.Warn("refresh_failed",
				zap.String("symbol", string(sym)),
				zap.Error(err))
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

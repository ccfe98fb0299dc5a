package application

import (
	"context"
	"time"

	"stockprices-service/internal/domain"
)

// Quoter is one external quote source. Implementations own their
// endpoint shape, auth, and payload parsing; the resolver only ever
// sees a Quote or an error.
type Quoter interface {
	Name() string
	Quote(ctx context.Context, symbol domain.Symbol) (domain.Quote, error)
}

// ProfileSource resolves company names. The primary provider
// implements it.
type ProfileSource interface {
	Name() string
	CompanyName(ctx context.Context, symbol domain.Symbol) (string, error)
}

// PriceCache is the fast lookup layer in front of the providers.
// Get honors the freshness TTL; GetStale ignores it.
type PriceCache interface {
	Get(ctx context.Context, symbol domain.Symbol) (domain.Quote, bool)
	GetStale(ctx context.Context, symbol domain.Symbol) (domain.Quote, bool)
	Put(ctx context.Context, q domain.Quote)
}

// NameCache caches resolved company names.
type NameCache interface {
	Get(symbol domain.Symbol) (string, bool)
	GetStale(symbol domain.Symbol) (string, bool)
	Put(symbol domain.Symbol, name string)
}

// PriceStore is the durable last-known-price record. It survives
// process restarts; the in-memory cache does not.
type PriceStore interface {
	Load(ctx context.Context, symbol domain.Symbol) (domain.Quote, error)
	Save(ctx context.Context, q domain.Quote) error
	ListSymbols(ctx context.Context, limit int) ([]domain.Symbol, error)
}

// RateGate serializes outbound calls. Wait enforces the global
// minimum interval between requests; Allow reports whether a provider
// is currently outside its backoff window.
type RateGate interface {
	Wait(ctx context.Context) error
	Allow(provider string) bool
	RecordRateLimit(provider string, retryAfter time.Duration)
	RecordSuccess(provider string)
}

// Worker represents a background processor.
// Implementations must run until the context is canceled.
type Worker interface {
	Start(ctx context.Context)
}

package provider

import (
	"context"
	"time"

	"stockprices-service/internal/application"
	"stockprices-service/internal/domain"
)

// Ensure Fake implements both ports.
var _ application.Quoter = (*Fake)(nil)
var _ application.ProfileSource = (*Fake)(nil)

type Fake struct {
	price float64
}

func NewFake(price float64) *Fake { return &Fake{price: price} }

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Quote(_ context.Context, symbol domain.Symbol) (domain.Quote, error) {
	return domain.Quote{
		Symbol:    symbol,
		Price:     f.price,
		UpdatedAt: time.Now().UTC(),
		Source:    f.Name(),
	}, nil
}

func (f *Fake) CompanyName(_ context.Context, symbol domain.Symbol) (string, error) {
	return string(symbol) + " Inc", nil
}

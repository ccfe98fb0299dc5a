package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"stockprices-service/internal/application"
	"stockprices-service/internal/domain"
	"stockprices-service/internal/infrastructure/httpx"
)

// Alpaca quotes bid/ask; the price is the midpoint, accepted only
// when both sides are positive.
type Alpaca struct {
	Endpoint  string
	APIKey    string
	SecretKey string
	Client    *httpx.Client
}

var _ application.Quoter = (*Alpaca)(nil)

func (p *Alpaca) Name() string { return "alpaca" }

type alpacaQuoteResp struct {
	Quote struct {
		Bid       float64 `json:"bp"`
		Ask       float64 `json:"ap"`
		Timestamp string  `json:"t"`
	} `json:"quote"`
}

func (p *Alpaca) Quote(ctx context.Context, symbol domain.Symbol) (domain.Quote, error) {
	if p.Endpoint == "" || p.APIKey == "" || p.SecretKey == "" {
		return domain.Quote{}, errors.New("alpaca: missing configuration")
	}
	u, err := url.Parse(p.Endpoint)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("alpaca: invalid endpoint: %w", err)
	}
	u.Path = u.Path + fmt.Sprintf("/stocks/%s/quotes/latest", url.PathEscape(string(symbol)))

	header := make(http.Header)
	header.Set("APCA-API-KEY-ID", p.APIKey)
	header.Set("APCA-API-SECRET-KEY", p.SecretKey)

	var body alpacaQuoteResp
	if err := p.Client.GetJSON(ctx, u.String(), header, &body); err != nil {
		return domain.Quote{}, fmt.Errorf("alpaca: %w", err)
	}
	bid, ask := body.Quote.Bid, body.Quote.Ask
	if bid <= 0 || ask <= 0 {
		return domain.Quote{}, fmt.Errorf("alpaca: no two-sided quote for %s", symbol)
	}

	out := domain.Quote{
		Symbol: symbol,
		Price:  (bid + ask) / 2,
		Source: p.Name(),
	}
	if ts, err := time.Parse(time.RFC3339Nano, body.Quote.Timestamp); err == nil {
		out.UpdatedAt = ts.UTC()
	}
	return out, nil
}

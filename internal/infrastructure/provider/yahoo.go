package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"stockprices-service/internal/application"
	"stockprices-service/internal/domain"
	"stockprices-service/internal/infrastructure/httpx"
)

const yahooQuotePath = "/v7/finance/quote"

// Yahoo is the keyless secondary provider.
type Yahoo struct {
	BaseURL string
	Client  *httpx.Client
}

var _ application.Quoter = (*Yahoo)(nil)

func (p *Yahoo) Name() string { return "yahoo" }

type yahooQuoteResp struct {
	QuoteResponse struct {
		Result []struct {
			RegularMarketPrice float64 `json:"regularMarketPrice"`
			RegularMarketTime  int64   `json:"regularMarketTime"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

func (p *Yahoo) Quote(ctx context.Context, symbol domain.Symbol) (domain.Quote, error) {
	if p.BaseURL == "" {
		return domain.Quote{}, errors.New("yahoo: missing configuration")
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("yahoo: invalid base url: %w", err)
	}
	u.Path = yahooQuotePath
	q := u.Query()
	q.Set("symbols", string(symbol))
	u.RawQuery = q.Encode()

	var body yahooQuoteResp
	if err := p.Client.GetJSON(ctx, u.String(), nil, &body); err != nil {
		return domain.Quote{}, fmt.Errorf("yahoo: %w", err)
	}
	results := body.QuoteResponse.Result
	if len(results) == 0 || results[0].RegularMarketPrice <= 0 {
		return domain.Quote{}, fmt.Errorf("yahoo: no price for %s", symbol)
	}

	out := domain.Quote{
		Symbol: symbol,
		Price:  results[0].RegularMarketPrice,
		Source: p.Name(),
	}
	if ts := results[0].RegularMarketTime; ts > 0 {
		out.UpdatedAt = time.Unix(ts, 0).UTC()
	}
	return out, nil
}

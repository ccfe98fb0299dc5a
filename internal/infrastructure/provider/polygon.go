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

// Polygon serves the previous-day aggregate close as the price.
type Polygon struct {
	BaseURL string
	APIKey  string
	Client  *httpx.Client
}

var _ application.Quoter = (*Polygon)(nil)

func (p *Polygon) Name() string { return "polygon" }

type polygonPrevResp struct {
	Results []struct {
		Ticker    string  `json:"T"`
		Close     float64 `json:"c"`
		Timestamp int64   `json:"t"` // epoch millis
	} `json:"results"`
}

func (p *Polygon) Quote(ctx context.Context, symbol domain.Symbol) (domain.Quote, error) {
	if p.BaseURL == "" || p.APIKey == "" {
		return domain.Quote{}, errors.New("polygon: missing configuration")
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("polygon: invalid base url: %w", err)
	}
	u.Path = fmt.Sprintf("/v2/aggs/ticker/%s/prev", url.PathEscape(string(symbol)))
	q := u.Query()
	q.Set("apikey", p.APIKey)
	u.RawQuery = q.Encode()

	var body polygonPrevResp
	if err := p.Client.GetJSON(ctx, u.String(), nil, &body); err != nil {
		return domain.Quote{}, fmt.Errorf("polygon: %w", err)
	}
	if len(body.Results) == 0 || body.Results[0].Close <= 0 {
		return domain.Quote{}, fmt.Errorf("polygon: no price for %s", symbol)
	}

	out := domain.Quote{
		Symbol: symbol,
		Price:  body.Results[0].Close,
		Source: p.Name(),
	}
	if ts := body.Results[0].Timestamp; ts > 0 {
		out.UpdatedAt = time.UnixMilli(ts).UTC()
	}
	return out, nil
}

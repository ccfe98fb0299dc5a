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

const (
	finnhubQuotePath   = "/api/v1/quote"
	finnhubProfilePath = "/api/v1/stock/profile2"
)

// Finnhub is the primary quote provider. It is the only provider
// whose 429 responses are surfaced as RateLimitError so the resolver
// can open a backoff window.
type Finnhub struct {
	BaseURL string
	APIKey  string
	Client  *httpx.Client
}

var _ application.Quoter = (*Finnhub)(nil)
var _ application.ProfileSource = (*Finnhub)(nil)

func (p *Finnhub) Name() string { return "finnhub" }

type finnhubQuoteResp struct {
	Current   float64 `json:"c"`
	Timestamp int64   `json:"t"`
}

func (p *Finnhub) Quote(ctx context.Context, symbol domain.Symbol) (domain.Quote, error) {
	if p.BaseURL == "" || p.APIKey == "" {
		return domain.Quote{}, errors.New("finnhub: missing configuration")
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("finnhub: invalid base url: %w", err)
	}
	u.Path = finnhubQuotePath
	q := u.Query()
	q.Set("symbol", string(symbol))
	q.Set("token", p.APIKey)
	u.RawQuery = q.Encode()

	var body finnhubQuoteResp
	if err := p.Client.GetJSON(ctx, u.String(), nil, &body); err != nil {
		return domain.Quote{}, classify(p.Name(), err)
	}
	if body.Current <= 0 {
		return domain.Quote{}, fmt.Errorf("finnhub: no price for %s", symbol)
	}

	out := domain.Quote{
		Symbol: symbol,
		Price:  body.Current,
		Source: p.Name(),
	}
	if body.Timestamp > 0 {
		out.UpdatedAt = time.Unix(body.Timestamp, 0).UTC()
	}
	return out, nil
}

type finnhubProfileResp struct {
	Name string `json:"name"`
}

func (p *Finnhub) CompanyName(ctx context.Context, symbol domain.Symbol) (string, error) {
	if p.BaseURL == "" || p.APIKey == "" {
		return "", errors.New("finnhub: missing configuration")
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return "", fmt.Errorf("finnhub: invalid base url: %w", err)
	}
	u.Path = finnhubProfilePath
	q := u.Query()
	q.Set("symbol", string(symbol))
	q.Set("token", p.APIKey)
	u.RawQuery = q.Encode()

	var body finnhubProfileResp
	if err := p.Client.GetJSON(ctx, u.String(), nil, &body); err != nil {
		return "", classify(p.Name(), err)
	}
	if body.Name == "" {
		return "", fmt.Errorf("finnhub: no profile for %s", symbol)
	}
	return body.Name, nil
}

// classify maps a 429 to RateLimitError and wraps everything else.
func classify(name string, err error) error {
	var se *httpx.StatusError
	if errors.As(err, &se) && se.Code == http.StatusTooManyRequests {
		return &application.RateLimitError{Provider: name, RetryAfter: se.RetryAfter}
	}
	return fmt.Errorf("%s: %w", name, err)
}

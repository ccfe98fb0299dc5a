package provider_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"stockprices-service/internal/infrastructure/httpx"
	"stockprices-service/internal/infrastructure/provider"

	"github.com/stretchr/testify/require"
)

func headerCaptureClient(resBody string, captured *http.Header) *httpx.Client {
	return &httpx.Client{HTTP: &http.Client{
		Timeout: 2 * time.Second,
		Transport: roundTripFunc(func(r *http.Request) *http.Response {
			*captured = r.Header.Clone()
			h := make(http.Header)
			h.Set("Content-Type", "application/json")
			return &http.Response{
				StatusCode: 200,
				Body:       io.NopCloser(strings.NewReader(resBody)),
				Header:     h,
				Request:    r,
			}
		}),
	}}
}

const yahooSampleOK = `{
  "quoteResponse": {
    "result": [
      {"symbol": "TSLA", "regularMarketPrice": 700.0, "regularMarketTime": 1731240000, "currency": "USD"}
    ],
    "error": null
  }
}`

func TestYahoo_Quote(t *testing.T) {
	p := &provider.Yahoo{
		BaseURL: "https://query1.finance.yahoo.com",
		Client:  jsonClient(yahooSampleOK, 200, nil),
	}
	q, err := p.Quote(context.Background(), "TSLA")
	require.NoError(t, err)
	require.InDelta(t, 700.0, q.Price, 1e-9)
	require.Equal(t, "yahoo", q.Source)
	require.Equal(t, time.Unix(1731240000, 0).UTC(), q.UpdatedAt)
}

func TestYahoo_Quote_EmptyResult(t *testing.T) {
	body := `{"quoteResponse": {"result": [], "error": null}}`
	p := &provider.Yahoo{
		BaseURL: "https://query1.finance.yahoo.com",
		Client:  jsonClient(body, 200, nil),
	}
	_, err := p.Quote(context.Background(), "NVRSEEN")
	require.Error(t, err)
}

func TestYahoo_Quote_ServerError(t *testing.T) {
	p := &provider.Yahoo{
		BaseURL: "https://query1.finance.yahoo.com",
		Client:  jsonClient(`{}`, 502, nil),
	}
	_, err := p.Quote(context.Background(), "TSLA")
	require.Error(t, err)
}

const polygonSampleOK = `{
  "ticker": "AAPL",
  "queryCount": 1,
  "resultsCount": 1,
  "results": [
    {"T": "AAPL", "c": 148.9, "h": 151.0, "l": 147.5, "o": 150.0, "t": 1731196800000, "v": 71000000}
  ],
  "status": "OK"
}`

func TestPolygon_Quote(t *testing.T) {
	p := &provider.Polygon{
		BaseURL: "https://api.polygon.io",
		APIKey:  "test",
		Client:  jsonClient(polygonSampleOK, 200, nil),
	}
	q, err := p.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.InDelta(t, 148.9, q.Price, 1e-9)
	require.Equal(t, "polygon", q.Source)
	require.Equal(t, time.UnixMilli(1731196800000).UTC(), q.UpdatedAt)
}

func TestPolygon_Quote_MissingKey(t *testing.T) {
	p := &provider.Polygon{BaseURL: "https://api.polygon.io", Client: jsonClient(polygonSampleOK, 200, nil)}
	_, err := p.Quote(context.Background(), "AAPL")
	require.Error(t, err)
}

func TestPolygon_Quote_NoResults(t *testing.T) {
	body := `{"ticker": "NVRSEEN", "queryCount": 0, "resultsCount": 0, "results": [], "status": "OK"}`
	p := &provider.Polygon{
		BaseURL: "https://api.polygon.io",
		APIKey:  "test",
		Client:  jsonClient(body, 200, nil),
	}
	_, err := p.Quote(context.Background(), "NVRSEEN")
	require.Error(t, err)
}

const alpacaSampleOK = `{
  "symbol": "AAPL",
  "quote": {"t": "2025-06-02T14:30:00.123456789Z", "bp": 150.0, "bs": 3, "ap": 150.5, "as": 2}
}`

func TestAlpaca_Quote_Midpoint(t *testing.T) {
	p := &provider.Alpaca{
		Endpoint:  "https://data.alpaca.markets/v2",
		APIKey:    "key-id",
		SecretKey: "secret",
		Client:    jsonClient(alpacaSampleOK, 200, nil),
	}
	q, err := p.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.InDelta(t, 150.25, q.Price, 1e-9)
	require.Equal(t, "alpaca", q.Source)
}

func TestAlpaca_Quote_OneSided(t *testing.T) {
	body := `{"symbol": "AAPL", "quote": {"t": "2025-06-02T14:30:00Z", "bp": 0, "ap": 150.5}}`
	p := &provider.Alpaca{
		Endpoint:  "https://data.alpaca.markets/v2",
		APIKey:    "key-id",
		SecretKey: "secret",
		Client:    jsonClient(body, 200, nil),
	}
	_, err := p.Quote(context.Background(), "AAPL")
	require.Error(t, err)
}

func TestAlpaca_Quote_MissingCreds(t *testing.T) {
	p := &provider.Alpaca{Endpoint: "https://data.alpaca.markets/v2", Client: jsonClient(alpacaSampleOK, 200, nil)}
	_, err := p.Quote(context.Background(), "AAPL")
	require.Error(t, err)
}

func TestAlpaca_Quote_SendsAuthHeaders(t *testing.T) {
	var got http.Header
	client := headerCaptureClient(alpacaSampleOK, &got)
	p := &provider.Alpaca{
		Endpoint:  "https://data.alpaca.markets/v2",
		APIKey:    "key-id",
		SecretKey: "secret",
		Client:    client,
	}
	_, err := p.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, "key-id", got.Get("APCA-API-KEY-ID"))
	require.Equal(t, "secret", got.Get("APCA-API-SECRET-KEY"))
}

func TestFake_Quote(t *testing.T) {
	p := provider.NewFake(123.45)
	q, err := p.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.InDelta(t, 123.45, q.Price, 1e-9)

	name, err := p.CompanyName(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, "AAPL Inc", name)
}

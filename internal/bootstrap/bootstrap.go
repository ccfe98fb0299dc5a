package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"stockprices-service/internal/application"
	"stockprices-service/internal/config"
	"stockprices-service/internal/infrastructure/httpx"
	"stockprices-service/internal/infrastructure/logx"
	"stockprices-service/internal/infrastructure/memcache"
	"stockprices-service/internal/infrastructure/pg"
	"stockprices-service/internal/infrastructure/provider"
	"stockprices-service/internal/infrastructure/ratelimit"
	redisstore "stockprices-service/internal/infrastructure/redis"
	"stockprices-service/internal/infrastructure/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store bundles the persistent layer with its readiness probe.
type Store struct {
	Prices application.PriceStore
	Ping   func(ctx context.Context) error
}

// BuildStore connects to Postgres, runs migrations, and returns the
// last-price repository.
func BuildStore(ctx context.Context, cfg config.Config) (Store, func(), error) {
	log := logx.L()
	if cfg.DatabaseURL == "" {
		return Store{}, func() {}, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return Store{}, func() {}, err
	}
	if err := pg.RunMigrations(ctx, db); err != nil {
		db.Close()
		return Store{}, func() {}, err
	}
	cleanup := func() {
		log.Info("closing pg")
		db.Close()
	}
	return Store{Prices: pg.NewLastPriceRepo(db), Ping: db.Ping}, cleanup, nil
}

// BuildPriceCache selects the cache backend. "memory" is the default;
// "redis" shares one cache across processes.
func BuildPriceCache(cfg config.Config) (application.PriceCache, func()) {
	switch cfg.CacheBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return redisstore.New(rdb, cfg.PriceCacheTTL), func() { _ = rdb.Close() }
	default:
		return memcache.NewPriceCache(cfg.PriceCacheTTL, cfg.MaxPriceCache), func() {}
	}
}

// BuildProviders assembles the quote sources in fallback order.
// Providers whose credentials are absent are skipped, not fatal.
func BuildProviders(cfg config.Config) ([]application.Quoter, application.ProfileSource) {
	log := logx.L()

	// Local development without any upstream credentials.
	if cfg.Provider == "fake" {
		f := provider.NewFake(1.23)
		return []application.Quoter{f}, f
	}

	client := &httpx.Client{HTTP: &http.Client{Timeout: cfg.RequestTimeout}}

	var quoters []application.Quoter
	var profile application.ProfileSource

	if cfg.FinnhubAPIKey != "" {
		fh := &provider.Finnhub{BaseURL: cfg.FinnhubAPIBase, APIKey: cfg.FinnhubAPIKey, Client: client}
		quoters = append(quoters, fh)
		profile = fh
	} else {
		log.Warn("finnhub disabled, no api key")
	}

	quoters = append(quoters, &provider.Yahoo{BaseURL: cfg.YahooAPIBase, Client: client})

	if cfg.PolygonAPIKey != "" {
		quoters = append(quoters, &provider.Polygon{BaseURL: cfg.PolygonAPIBase, APIKey: cfg.PolygonAPIKey, Client: client})
	} else {
		log.Warn("polygon disabled, no api key")
	}

	if cfg.AlpacaAPIKey != "" && cfg.AlpacaSecretKey != "" {
		quoters = append(quoters, &provider.Alpaca{
			Endpoint:  cfg.AlpacaEndpoint,
			APIKey:    cfg.AlpacaAPIKey,
			SecretKey: cfg.AlpacaSecretKey,
			Client:    client,
		})
	} else {
		log.Warn("alpaca disabled, no api keys")
	}

	return quoters, profile
}

// BuildService wires the resolver with its cache, store, gate, and
// provider chain.
func BuildService(cfg config.Config, cache application.PriceCache, store Store) *application.PriceService {
	log := logx.L()
	quoters, profile := BuildProviders(cfg)
	gate := ratelimit.NewGate(cfg.MinRequestInterval)

	opts := []application.Option{
		application.WithLogger(log),
		application.WithBackoff(cfg.PrimaryBackoff),
	}
	if profile != nil {
		names := memcache.NewNameCache(cfg.CompanyCacheTTL, cfg.MaxCompanyCache)
		opts = append(opts, application.WithCompanyNames(profile, names))
	}
	log.Info("providers configured", zap.Int("count", len(quoters)))
	return application.NewPriceService(cache, store.Prices, gate, quoters, opts...)
}

// BuildRefresher returns the background worker that re-resolves every
// symbol known to the store.
func BuildRefresher(cfg config.Config, svc *application.PriceService) application.Worker {
	return &worker.Refresher{
		Service:    svc,
		PollEvery:  cfg.RefreshPoll,
		BatchLimit: cfg.RefreshBatchLimit,
		Log:        logx.L(),
	}
}

package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port        string
	DatabaseURL string
	// Cache
	CacheBackend    string
	PriceCacheTTL   time.Duration
	MaxPriceCache   int
	CompanyCacheTTL time.Duration
	MaxCompanyCache int
	// Redis (shared price cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Rate gate
	MinRequestInterval time.Duration
	PrimaryBackoff     time.Duration
	// Providers
	Provider        string
	RequestTimeout  time.Duration
	FinnhubAPIBase  string
	FinnhubAPIKey   string
	YahooAPIBase    string
	PolygonAPIBase  string
	PolygonAPIKey   string
	AlpacaEndpoint  string
	AlpacaAPIKey    string
	AlpacaSecretKey string
	// Refresher
	RefreshPoll       time.Duration
	RefreshBatchLimit int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func secs(key string, def int) time.Duration {
	return time.Duration(atoiDef(getEnv(key, strconv.Itoa(def)), def)) * time.Second
}

func millis(key string, def int) time.Duration {
	return time.Duration(atoiDef(getEnv(key, strconv.Itoa(def)), def)) * time.Millisecond
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:      getEnv("ENV", "local"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnv("PORT", "8080"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		CacheBackend:    getEnv("CACHE_BACKEND", "memory"),
		PriceCacheTTL:   secs("PRICE_CACHE_TTL", 86400),
		MaxPriceCache:   atoiDef(getEnv("MAX_PRICE_CACHE_SIZE", "1000"), 1000),
		CompanyCacheTTL: secs("COMPANY_CACHE_TTL", 86400),
		MaxCompanyCache: atoiDef(getEnv("MAX_COMPANY_CACHE_SIZE", "500"), 500),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       atoiDef(getEnv("REDIS_DB", "0"), 0),

		MinRequestInterval: millis("MIN_REQUEST_INTERVAL_MS", 2000),
		PrimaryBackoff:     millis("PRIMARY_BACKOFF_MS", 60000),

		Provider:        getEnv("PROVIDER", "live"),
		RequestTimeout:  millis("REQUEST_TIMEOUT_MS", 10000),
		FinnhubAPIBase:  getEnv("FINNHUB_API_BASE", "https://finnhub.io"),
		FinnhubAPIKey:   getEnv("FINNHUB_API_KEY", ""),
		YahooAPIBase:    getEnv("YAHOO_API_BASE", "https://query1.finance.yahoo.com"),
		PolygonAPIBase:  getEnv("POLYGON_API_BASE", "https://api.polygon.io"),
		PolygonAPIKey:   getEnv("POLYGON_API_KEY", ""),
		AlpacaEndpoint:  getEnv("ALPACA_ENDPOINT", "https://data.alpaca.markets/v2"),
		AlpacaAPIKey:    getEnv("ALPACA_API_KEY", ""),
		AlpacaSecretKey: getEnv("ALPACA_SECRET_KEY", ""),

		RefreshPoll:       millis("REFRESH_POLL_MS", 6*60*60*1000),
		RefreshBatchLimit: atoiDef(getEnv("REFRESH_BATCH_LIMIT", "50"), 50),
	}
}

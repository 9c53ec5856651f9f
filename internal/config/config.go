package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig holds everything the proxy reads from the environment.
type AppConfig struct {
	// WillyWeatherAPIKey authenticates the WillyWeather provider. Empty means
	// the provider rejects requests with a configuration error.
	WillyWeatherAPIKey string

	// AllowedOrigins is the CORS allow-list applied to /api routes.
	AllowedOrigins []string

	// UseMock redirects default-provider requests to the mock generator.
	UseMock bool

	// CacheTTL is how long normalized responses stay servable from cache.
	CacheTTL time.Duration

	// RequestTimeout bounds each upstream provider call.
	RequestTimeout time.Duration

	// DefaultProvider is used when a request names no provider.
	DefaultProvider string

	// CacheStatsInterval is how often the cache counters are logged.
	CacheStatsInterval time.Duration

	Port string
}

// Load reads configuration from environment variables with the defaults the
// frontend development setup expects.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.WillyWeatherAPIKey = strings.TrimSpace(os.Getenv("WILLYWEATHER_API_KEY"))
	cfg.AllowedOrigins = splitOrigins(getenvDefault("ALLOWED_ORIGINS", "http://localhost:8000"))
	cfg.UseMock = getenvBool("USE_MOCK", true)
	cfg.CacheTTL = time.Duration(getenvInt("CACHE_TTL_SECONDS", 300)) * time.Second

	timeoutStr := getenvDefault("REQUEST_TIMEOUT", "5")
	timeoutSec, err := strconv.ParseFloat(timeoutStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = time.Duration(timeoutSec * float64(time.Second))

	cfg.DefaultProvider = strings.ToLower(strings.TrimSpace(getenvDefault("WEATHER_PROVIDER", "mock")))

	statsStr := getenvDefault("CACHE_STATS_INTERVAL", "5m")
	statsInterval, err := time.ParseDuration(statsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_STATS_INTERVAL: %w", err)
	}
	cfg.CacheStatsInterval = statsInterval

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "True":
		return true
	default:
		return false
	}
}

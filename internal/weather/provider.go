package weather

import (
	"context"
	"time"
)

// Provider abstracts a forecast source (mock generator, Open-Meteo,
// WillyWeather).
type Provider interface {
	Name() string
	FetchForecast(ctx context.Context, lat, lon float64, days int) (Forecast, error)
}

// Cache is the contract the in-memory response cache must satisfy.
type Cache interface {
	Get(key string) (Response, bool)
	Set(key string, resp Response, ttl time.Duration)
}

package weather

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

// MockProviderName is the reserved provider name that short-circuits to the
// in-process generator.
const MockProviderName = "mock"

// Options carries the request-handling knobs the service needs beyond its
// collaborators.
type Options struct {
	// DefaultProvider is used when the request names no provider.
	DefaultProvider string
	// UseMock redirects requests for the default provider to the mock
	// generator, so local development never hits real quotas.
	UseMock bool
	// CacheTTL is how long a normalized response stays servable from cache.
	CacheTTL time.Duration
	// RequestTimeout bounds each upstream call.
	RequestTimeout time.Duration
}

// Service resolves a provider for each request, consults the response cache,
// and normalizes upstream results. It owns no state beyond its collaborators.
type Service struct {
	cache     Cache
	providers map[string]Provider
	opts      Options
}

// NewService creates a Service dispatching to the given providers, keyed by
// their Name().
func NewService(cache Cache, providers []Provider, opts Options) *Service {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	if opts.DefaultProvider == "" {
		opts.DefaultProvider = MockProviderName
	}
	return &Service{
		cache:     cache,
		providers: byName,
		opts:      opts,
	}
}

// Query holds the already-validated request parameters. Lat and Lon stay raw
// strings so the cache key matches exactly what the client sent.
type Query struct {
	Lat      string
	Lon      string
	Days     int
	Provider string
}

// CacheKey builds the cache key for a provider/coordinate/day-count triple.
func CacheKey(provider, lat, lon string, days int) string {
	return fmt.Sprintf("weather:%s:%s:%s:%d", provider, lat, lon, days)
}

// Forecast returns a normalized forecast for the query, served from cache
// when possible. Exactly one upstream call is made on a cache miss; failures
// surface immediately with no retries.
func (s *Service) Forecast(ctx context.Context, q Query) (Response, error) {
	provider := strings.ToLower(strings.TrimSpace(q.Provider))
	if provider == "" {
		provider = s.opts.DefaultProvider
	}

	key := CacheKey(provider, q.Lat, q.Lon, q.Days)
	if resp, ok := s.cache.Get(key); ok {
		resp.Source = "cache"
		return resp, nil
	}

	lat, latErr := strconv.ParseFloat(q.Lat, 64)
	lon, lonErr := strconv.ParseFloat(q.Lon, 64)
	if latErr != nil || lonErr != nil {
		return Response{}, ErrInvalidCoordinates
	}

	p, err := s.resolve(provider)
	if err != nil {
		return Response{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	fc, err := p.FetchForecast(ctx, lat, lon, q.Days)
	if err != nil {
		return Response{}, err
	}

	resp := Response{
		Location: Location{
			Lat:                    lat,
			Lon:                    lon,
			WillyWeatherLocationID: fc.LocationID,
		},
		Days:     q.Days,
		Mock:     p.Name() == MockProviderName,
		Forecast: fc.Days,
	}

	s.cache.Set(key, resp, s.opts.CacheTTL)
	log.Printf("weather: fetched %d day(s) from %s for %s,%s", len(fc.Days), p.Name(), q.Lat, q.Lon)
	return resp, nil
}

// resolve maps a provider name to an adapter. Requests for the configured
// default provider go to the mock generator while mock mode is on.
func (s *Service) resolve(name string) (Provider, error) {
	if name == MockProviderName || (name == s.opts.DefaultProvider && s.opts.UseMock) {
		name = MockProviderName
	}
	p, ok := s.providers[name]
	if !ok {
		return nil, &UnknownProviderError{Name: name}
	}
	return p, nil
}

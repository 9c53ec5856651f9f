package providers

import (
	"context"

	"github.com/stationmap/weather-proxy/internal/weather"
)

// MockProvider synthesizes a deterministic-shape forecast without any network
// call, for local development and for keeping demo traffic off real quotas.
type MockProvider struct {
	name string
}

func NewMockProvider() *MockProvider {
	return &MockProvider{name: weather.MockProviderName}
}

func (p *MockProvider) Name() string {
	return p.name
}

// FetchForecast returns `days` placeholder entries with incrementing
// temperatures. The values are arbitrary but stable for a given day count.
func (p *MockProvider) FetchForecast(_ context.Context, _, _ float64, days int) (weather.Forecast, error) {
	entries := make([]weather.DayEntry, 0, days)
	for i := 0; i < days; i++ {
		entries = append(entries, weather.DayEntry{
			Summary: "Partly cloudy",
			TempMin: floatPtr(float64(10 + i)),
			TempMax: floatPtr(float64(18 + i)),
		})
	}
	return weather.Forecast{Days: weather.Normalize(entries)}, nil
}

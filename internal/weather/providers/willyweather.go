package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/stationmap/weather-proxy/internal/weather"
)

// searchRangeKm biases the coordinate search to the nearest general location.
const searchRangeKm = 10

// WillyWeatherProvider implements the weather.Provider interface for the
// WillyWeather API. Fetching is two-step: resolve the coordinate to a
// WillyWeather location id, then fetch the per-location weather forecast.
// Both endpoints take their parameters as a JSON x-payload header.
type WillyWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewWillyWeatherProvider(client *http.Client, apiKey string) *WillyWeatherProvider {
	return &WillyWeatherProvider{
		name:    "willyweather",
		apiKey:  apiKey,
		baseURL: "https://api.willyweather.com.au",
		client:  client,
		circuit: newBreaker("willyweather"),
	}
}

func (p *WillyWeatherProvider) Name() string {
	return p.name
}

func (p *WillyWeatherProvider) FetchForecast(ctx context.Context, lat, lon float64, days int) (weather.Forecast, error) {
	if p.apiKey == "" {
		return weather.Forecast{}, fmt.Errorf("willyweather: %w", weather.ErrMissingAPIKey)
	}

	id, err := p.findLocationID(ctx, lat, lon)
	if err != nil {
		return weather.Forecast{}, err
	}

	entries, err := p.forecastByID(ctx, id, days)
	if err != nil {
		return weather.Forecast{}, err
	}

	return weather.Forecast{
		Days:       weather.Normalize(entries),
		LocationID: id,
	}, nil
}

// findLocationID resolves the closest WillyWeather location for the
// coordinates via the search-by-coordinates endpoint.
func (p *WillyWeatherProvider) findLocationID(ctx context.Context, lat, lon float64) (int, error) {
	payload, err := json.Marshal(struct {
		Lat   float64 `json:"lat"`
		Lng   float64 `json:"lng"`
		Range int     `json:"range"`
		Units struct {
			Distance string `json:"distance"`
		} `json:"units"`
	}{
		Lat:   lat,
		Lng:   lon,
		Range: searchRangeKm,
		Units: struct {
			Distance string `json:"distance"`
		}{Distance: "km"},
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/v2/%s/search.json", p.baseURL, p.apiKey), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-payload", string(payload))

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var body struct {
		Location *struct {
			ID int `json:"id"`
		} `json:"location"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	if body.Location == nil {
		return 0, weather.ErrLocationNotFound
	}
	return body.Location.ID, nil
}

// forecastByID fetches the daily weather forecast for a resolved location id.
// Per day it prefers the daytime entry (night == false), falls back to the
// first entry, and skips days with no entries entirely.
//
// TODO: confirm the daytime-selection fallback and the empty-day skip against
// the current WillyWeather forecast docs; both mirror observed responses.
func (p *WillyWeatherProvider) forecastByID(ctx context.Context, id, days int) ([]weather.DayEntry, error) {
	payload, err := json.Marshal(struct {
		Forecasts []string `json:"forecasts"`
		Days      int      `json:"days"`
	}{
		Forecasts: []string{"weather"},
		Days:      days,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/v2/%s/locations/%d/weather.json", p.baseURL, p.apiKey, id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-payload", string(payload))

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body struct {
		Forecasts struct {
			Weather struct {
				Days []struct {
					Entries []wwEntry `json:"entries"`
				} `json:"days"`
			} `json:"weather"`
		} `json:"forecasts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	var entries []weather.DayEntry
	for _, day := range body.Forecasts.Weather.Days {
		chosen, ok := pickDayEntry(day.Entries)
		if !ok {
			continue
		}
		entries = append(entries, weather.DayEntry{
			Summary: chosen.Precis,
			TempMin: chosen.Min,
			TempMax: chosen.Max,
		})
	}

	if len(entries) > days {
		entries = entries[:days]
	}
	return entries, nil
}

type wwEntry struct {
	Night  bool     `json:"night"`
	Precis string   `json:"precis"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
}

// pickDayEntry selects the entry representing the day: the first non-night
// entry, or the first entry when every entry is flagged night.
func pickDayEntry(entries []wwEntry) (wwEntry, bool) {
	if len(entries) == 0 {
		return wwEntry{}, false
	}
	for _, e := range entries {
		if !e.Night {
			return e, true
		}
	}
	return entries[0], true
}

package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/stationmap/weather-proxy/internal/weather"
)

// OpenMeteoProvider implements the weather.Provider interface for the
// Open-Meteo daily forecast endpoint. No API key required.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "open-meteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		client:  client,
		circuit: newBreaker("open-meteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchForecast issues one GET for daily min/max temperature and weather code
// and maps the first min(returned, days) entries. Short upstream arrays
// degrade to nil temperatures rather than failing the request.
func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, lat, lon float64, days int) (weather.Forecast, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("daily", "temperature_2m_min,temperature_2m_max,weathercode")
	values.Set("timezone", "auto")
	values.Set("forecast_days", strconv.Itoa(days))

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	if err != nil {
		return weather.Forecast{}, err
	}

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return weather.Forecast{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Daily struct {
			Time    []string   `json:"time"`
			TempMin []*float64 `json:"temperature_2m_min"`
			TempMax []*float64 `json:"temperature_2m_max"`
			Code    []int      `json:"weathercode"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Forecast{}, err
	}

	n := len(payload.Daily.Time)
	if n > days {
		n = days
	}

	entries := make([]weather.DayEntry, 0, n)
	for i := 0; i < n; i++ {
		var e weather.DayEntry
		if i < len(payload.Daily.Code) {
			e.Summary = mapWeatherCode(payload.Daily.Code[i])
		}
		if i < len(payload.Daily.TempMin) {
			e.TempMin = payload.Daily.TempMin[i]
		}
		if i < len(payload.Daily.TempMax) {
			e.TempMax = payload.Daily.TempMax[i]
		}
		entries = append(entries, e)
	}

	return weather.Forecast{Days: weather.Normalize(entries)}, nil
}

// mapWeatherCode translates Open-Meteo integer weather codes into the short
// labels the frontend renders. Unmapped codes fall through as "Code {n}".
func mapWeatherCode(code int) string {
	switch code {
	case 0:
		return "Clear sky"
	case 1:
		return "Mainly clear"
	case 2:
		return "Partly cloudy"
	case 3:
		return "Overcast"
	case 45, 48:
		return "Fog"
	case 51, 53, 55:
		return "Drizzle"
	case 56, 57:
		return "Freezing drizzle"
	case 61, 63, 65:
		return "Rain"
	case 66, 67:
		return "Freezing rain"
	case 71, 73, 75, 77:
		return "Snow"
	case 80, 81, 82:
		return "Rain showers"
	case 85, 86:
		return "Snow showers"
	case 95:
		return "Thunderstorm"
	case 96, 97, 99:
		return "Thunderstorm w/ hail"
	default:
		return fmt.Sprintf("Code %d", code)
	}
}

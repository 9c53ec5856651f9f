package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stationmap/weather-proxy/internal/weather"
)

func newOpenMeteoAgainst(t *testing.T, handler http.HandlerFunc) *OpenMeteoProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewOpenMeteoProvider(&http.Client{Timeout: time.Second})
	p.baseURL = srv.URL
	return p
}

func TestOpenMeteoFetchForecast(t *testing.T) {
	p := newOpenMeteoAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("daily") != "temperature_2m_min,temperature_2m_max,weathercode" {
			t.Errorf("unexpected daily param %q", q.Get("daily"))
		}
		if q.Get("forecast_days") != "2" {
			t.Errorf("unexpected forecast_days %q", q.Get("forecast_days"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"daily": {
				"time": ["2026-08-26", "2026-08-27"],
				"temperature_2m_min": [8.1, 9.4],
				"temperature_2m_max": [17.2, 18.9],
				"weathercode": [61, 0]
			}
		}`))
	})

	fc, err := p.FetchForecast(context.Background(), -37.8, 144.9, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(fc.Days))
	}
	if fc.Days[0].Summary != "Rain" {
		t.Fatalf("code 61 should map to Rain, got %q", fc.Days[0].Summary)
	}
	if fc.Days[1].Summary != "Clear sky" {
		t.Fatalf("code 0 should map to Clear sky, got %q", fc.Days[1].Summary)
	}
	if fc.Days[0].TempMin == nil || *fc.Days[0].TempMin != 8.1 {
		t.Fatalf("unexpected tempMin %v", fc.Days[0].TempMin)
	}
	if fc.Days[0].Day != 1 || fc.Days[1].Day != 2 {
		t.Fatal("expected 1-based day numbering")
	}
}

func TestOpenMeteoShortArraysDegradeGracefully(t *testing.T) {
	// Upstream returned three dates but only one temperature pair and no codes.
	p := newOpenMeteoAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"daily": {
				"time": ["2026-08-26", "2026-08-27", "2026-08-28"],
				"temperature_2m_min": [8.1],
				"temperature_2m_max": [17.2],
				"weathercode": []
			}
		}`))
	})

	fc, err := p.FetchForecast(context.Background(), -37.8, 144.9, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(fc.Days))
	}
	if fc.Days[1].TempMin != nil || fc.Days[1].TempMax != nil {
		t.Fatal("missing temperatures must be nil, not zero")
	}
	if fc.Days[1].Summary != "—" {
		t.Fatalf("missing code should render the placeholder summary, got %q", fc.Days[1].Summary)
	}
}

func TestOpenMeteoTruncatesToRequestedDays(t *testing.T) {
	p := newOpenMeteoAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"daily": {
				"time": ["2026-08-26", "2026-08-27", "2026-08-28"],
				"temperature_2m_min": [1, 2, 3],
				"temperature_2m_max": [11, 12, 13],
				"weathercode": [0, 0, 0]
			}
		}`))
	})

	fc, err := p.FetchForecast(context.Background(), -37.8, 144.9, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.Days) != 2 {
		t.Fatalf("expected truncation to 2 days, got %d", len(fc.Days))
	}
}

func TestOpenMeteoUpstreamStatusError(t *testing.T) {
	p := newOpenMeteoAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := p.FetchForecast(context.Background(), 0, 0, 1)

	var statusErr *weather.UpstreamStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected UpstreamStatusError, got %v", err)
	}
	if statusErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", statusErr.Status)
	}
}

func TestOpenMeteoTimeout(t *testing.T) {
	p := newOpenMeteoAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	p.client = &http.Client{Timeout: 20 * time.Millisecond}

	_, err := p.FetchForecast(context.Background(), 0, 0, 1)
	if !errors.Is(err, weather.ErrUpstreamTimeout) {
		t.Fatalf("expected ErrUpstreamTimeout, got %v", err)
	}
}

func TestOpenMeteoContextDeadline(t *testing.T) {
	p := newOpenMeteoAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.FetchForecast(ctx, 0, 0, 1)
	if !errors.Is(err, weather.ErrUpstreamTimeout) {
		t.Fatalf("expected ErrUpstreamTimeout, got %v", err)
	}
}

func TestMapWeatherCode(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{0, "Clear sky"},
		{2, "Partly cloudy"},
		{48, "Fog"},
		{55, "Drizzle"},
		{61, "Rain"},
		{63, "Rain"},
		{65, "Rain"},
		{77, "Snow"},
		{82, "Rain showers"},
		{95, "Thunderstorm"},
		{99, "Thunderstorm w/ hail"},
		{999, "Code 999"},
		{-1, "Code -1"},
	}

	for _, tc := range cases {
		if got := mapWeatherCode(tc.code); got != tc.want {
			t.Errorf("code %d: expected %q, got %q", tc.code, tc.want, got)
		}
	}
}

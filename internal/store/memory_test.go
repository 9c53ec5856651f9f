package store

import (
	"testing"
	"time"

	"github.com/stationmap/weather-proxy/internal/weather"
)

func sampleResponse(days int) weather.Response {
	fc := make([]weather.ForecastDay, 0, days)
	for i := 0; i < days; i++ {
		fc = append(fc, weather.ForecastDay{Day: i + 1, Summary: "Partly cloudy"})
	}
	return weather.Response{
		Location: weather.Location{Lat: -37.8, Lon: 144.9},
		Days:     days,
		Forecast: fc,
	}
}

func TestGetReturnsUnexpiredEntry(t *testing.T) {
	c := NewResponseCache()
	resp := sampleResponse(3)

	c.Set("weather:mock:-37.8:144.9:3", resp, time.Minute)

	got, ok := c.Get("weather:mock:-37.8:144.9:3")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got.Forecast) != 3 {
		t.Fatalf("expected 3 forecast days, got %d", len(got.Forecast))
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 0 {
		t.Fatalf("expected 1 hit and 0 misses, got %d/%d", stats.Hits, stats.Misses)
	}
}

func TestGetMissesUnknownKey(t *testing.T) {
	c := NewResponseCache()

	if _, ok := c.Get("weather:mock:0:0:7"); ok {
		t.Fatal("expected cache miss for unknown key")
	}
	if stats := c.Stats(); stats.Misses != 1 {
		t.Fatalf("expected 1 miss, got %d", stats.Misses)
	}
}

func TestGetEvictsExpiredEntry(t *testing.T) {
	c := NewResponseCache()
	c.Set("k", sampleResponse(1), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expected expired entry to be deleted, cache has %d entries", c.Len())
	}

	stats := c.Stats()
	if stats.Evictions != 1 {
		t.Fatalf("expected 1 eviction, got %d", stats.Evictions)
	}
	if stats.Misses != 1 {
		t.Fatalf("expected expired read to count as a miss, got %d", stats.Misses)
	}
}

func TestSetOverwritesUnconditionally(t *testing.T) {
	c := NewResponseCache()
	c.Set("k", sampleResponse(1), time.Minute)
	c.Set("k", sampleResponse(5), time.Minute)

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Days != 5 {
		t.Fatalf("expected overwritten entry with 5 days, got %d", got.Days)
	}
	if c.Len() != 1 {
		t.Fatalf("expected a single entry, got %d", c.Len())
	}
}

func TestSetRefreshesExpiry(t *testing.T) {
	c := NewResponseCache()
	c.Set("k", sampleResponse(1), 10*time.Millisecond)
	c.Set("k", sampleResponse(1), time.Minute)

	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected refreshed entry to still be cached")
	}
}

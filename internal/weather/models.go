package weather

// ForecastDay is the uniform per-day shape every provider adapter produces,
// regardless of the upstream schema.
type ForecastDay struct {
	Day     int      `json:"day"`
	Summary string   `json:"summary"`
	TempMin *float64 `json:"tempMin"`
	TempMax *float64 `json:"tempMax"`
}

// Location identifies the coordinate a forecast was requested for.
// WillyWeatherLocationID is set only when the WillyWeather adapter resolved
// the coordinate to one of its location ids.
type Location struct {
	Lat                    float64 `json:"lat"`
	Lon                    float64 `json:"lon"`
	WillyWeatherLocationID int     `json:"willyWeatherLocationId,omitempty"`
}

// Response is the normalized payload returned to the frontend.
type Response struct {
	Location Location      `json:"location"`
	Days     int           `json:"days"`
	Source   string        `json:"source,omitempty"`
	Mock     bool          `json:"mock,omitempty"`
	Forecast []ForecastDay `json:"forecast"`
}

// Forecast is what a provider adapter hands back: normalized days plus any
// provider-specific location resolution.
type Forecast struct {
	Days       []ForecastDay
	LocationID int
}

// DayEntry is a provider-shaped day before day numbers are assigned.
type DayEntry struct {
	Summary string
	TempMin *float64
	TempMax *float64
}

// placeholderSummary stands in for days where the upstream gave no text.
const placeholderSummary = "—"

// Normalize assigns 1-based day numbers and fills missing summaries so the
// frontend always sees the same structure.
func Normalize(entries []DayEntry) []ForecastDay {
	out := make([]ForecastDay, 0, len(entries))
	for i, e := range entries {
		summary := e.Summary
		if summary == "" {
			summary = placeholderSummary
		}
		out = append(out, ForecastDay{
			Day:     i + 1,
			Summary: summary,
			TempMin: e.TempMin,
			TempMax: e.TempMax,
		})
	}
	return out
}

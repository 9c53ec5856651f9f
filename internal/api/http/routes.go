package httpapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/stationmap/weather-proxy/internal/weather"
)

var validate = validator.New()

// defaultDays matches what the frontend requests when the user has not
// picked a range.
const defaultDays = 7

// RegisterRoutes wires the weather proxy handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc *weather.Service) {
	api := app.Group("/api")
	api.Get("/weather", handleWeather(svc))
}

// weatherQuery holds the raw query parameters for /api/weather. The days
// ceiling is Open-Meteo's own forecast limit; WillyWeather truncates
// server-side anyway.
type weatherQuery struct {
	Lat      string `validate:"required"`
	Lon      string `validate:"required"`
	Days     int    `validate:"gte=1,lte=16"`
	Provider string
}

func handleWeather(svc *weather.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := weatherQuery{
			Lat:      c.Query("lat"),
			Lon:      c.Query("lon"),
			Provider: c.Query("provider"),
			Days:     defaultDays,
		}
		daysInvalid := false
		if s := c.Query("days"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				daysInvalid = true
			} else {
				q.Days = n
			}
		}

		// Missing coordinates win over any other parameter problem.
		if err := validate.Struct(q); err != nil {
			if hasFieldError(err, "Lat", "Lon") {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "lat and lon are required"})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid days"})
		}
		if daysInvalid {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid days"})
		}

		// A disconnecting client must not abort the upstream call, so the
		// service gets a fresh context rather than the request's.
		resp, err := svc.Forecast(context.Background(), weather.Query{
			Lat:      q.Lat,
			Lon:      q.Lon,
			Days:     q.Days,
			Provider: q.Provider,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(resp)
	}
}

func hasFieldError(err error, fields ...string) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		for _, f := range fields {
			if fe.Field() == f {
				return true
			}
		}
	}
	return false
}

// writeServiceError converts the service error taxonomy into the HTTP
// statuses and exact JSON bodies the frontend matches on.
func writeServiceError(c *fiber.Ctx, err error) error {
	var unknown *weather.UnknownProviderError
	var upstream *weather.UpstreamStatusError

	switch {
	case errors.Is(err, weather.ErrInvalidCoordinates):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lat/lon"})
	case errors.As(err, &unknown):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("Unknown provider '%s'", unknown.Name)})
	case errors.Is(err, weather.ErrLocationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No WillyWeather location found for coordinates"})
	case errors.Is(err, weather.ErrUpstreamTimeout):
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"error": "Upstream timeout"})
	case errors.As(err, &upstream):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Upstream error", "status": upstream.Status})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Upstream failure", "detail": err.Error()})
	}
}

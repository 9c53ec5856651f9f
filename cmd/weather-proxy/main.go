package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	httpapi "github.com/stationmap/weather-proxy/internal/api/http"
	"github.com/stationmap/weather-proxy/internal/config"
	"github.com/stationmap/weather-proxy/internal/scheduler"
	"github.com/stationmap/weather-proxy/internal/store"
	"github.com/stationmap/weather-proxy/internal/weather"
	"github.com/stationmap/weather-proxy/internal/weather/providers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.RequestTimeout,
	}

	// In-memory response cache, passed to the service as a dependency.
	cache := store.NewResponseCache()

	// The closed set of provider adapters.
	provs := []weather.Provider{
		providers.NewMockProvider(),
		providers.NewOpenMeteoProvider(httpClient),
		providers.NewWillyWeatherProvider(httpClient, cfg.WillyWeatherAPIKey),
	}

	// Core service resolving providers and normalizing responses.
	service := weather.NewService(cache, provs, weather.Options{
		DefaultProvider: cfg.DefaultProvider,
		UseMock:         cfg.UseMock,
		CacheTTL:        cfg.CacheTTL,
		RequestTimeout:  cfg.RequestTimeout,
	})

	// Periodic cache stats log line.
	reporter := scheduler.New(cache, cfg.CacheStatsInterval)
	if err := reporter.Start(); err != nil {
		log.Fatalf("failed to start cache stats reporter: %v", err)
	}
	defer reporter.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-proxy",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response for anything the weather handler
			// did not map itself.
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// CORS applies to the API surface only, not /health.
	app.Use("/api", cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowedOrigins, ","),
	}))

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/ndavenko/cityweather/internal/config"
	"github.com/ndavenko/cityweather/internal/probe"
	"github.com/ndavenko/cityweather/internal/weather/providers"
	"github.com/ndavenko/cityweather/internal/web"
)

func main() {
	// Load configuration (.env supported).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey)

	// Background reachability probe feeding /health.
	prb := probe.New(httpClient, cfg.OpenWeatherBaseURL, cfg.ProbeInterval)
	if err := prb.Start(); err != nil {
		log.Fatalf("failed to start provider probe: %v", err)
	}
	defer prb.Stop()

	// Session-backed staging of the submitted city.
	pending := web.NewPendingStore(cfg.SessionTTL)

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "cityweather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
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
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(recover.New())

	// Pages and health endpoint.
	web.RegisterRoutes(app, web.NewHandlers(provider, pending, prb))

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

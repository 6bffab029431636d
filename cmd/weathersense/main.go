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

	httpapi "github.com/telemetree/weathersense/internal/api/http"
	"github.com/telemetree/weathersense/internal/config"
	"github.com/telemetree/weathersense/internal/predict"
	"github.com/telemetree/weathersense/internal/scheduler"
	"github.com/telemetree/weathersense/internal/store"
	"github.com/telemetree/weathersense/internal/weather"
	"github.com/telemetree/weathersense/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.OpenWeatherAPIKey == "" {
		log.Printf("WARN: OPENWEATHER_API_KEY is not set; live weather endpoints will fail")
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// CSV-backed history store.
	st, err := store.NewCSVStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}

	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey)
	weatherSvc := weather.NewService(provider, st, cfg.DefaultCity)

	// Prediction service, training from the daily dataset. Evaluation
	// artifacts land next to the data.
	reporter, err := predict.NewCSVReporter(cfg.ReportDir)
	if err != nil {
		log.Fatalf("failed to create report dir: %v", err)
	}
	loader := func() ([]weather.Observation, error) {
		return store.ReadDataset(cfg.DatasetPath)
	}
	predictor := predict.NewService(predict.DefaultConfig(), loader, reporter)

	// Scheduler that periodically captures current conditions.
	sched := scheduler.New(weatherSvc, cfg.CaptureInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weathersense",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "ok",
			"service":     "weathersense",
			"initialized": predictor.Initialized(),
		})
	})

	httpapi.RegisterRoutes(app, weatherSvc, st, predictor)

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

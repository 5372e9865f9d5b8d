package main

//go:generate go run github.com/swaggo/swag/cmd/swag@latest init -g docs.go -o ../../docs --parseDependency

import (
	"context"
	"log"
	"log/slog"

	"weather-dashboard/internal/config"
	"weather-dashboard/internal/dashboard"

	_ "weather-dashboard/docs" // Import generated docs
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize logger
	logger := cfg.NewLogger()
	slog.SetDefault(logger) // Set as default logger for the application

	services, err := dashboard.New(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create services: %v", err)
	}
	defer func() {
		if err := services.Close(); err != nil {
			logger.Error("failed to close services", "error", err)
		}
	}()

	// Create app
	app := NewApp(cfg, logger, services.Weather, services.Location)

	// Start server
	logger.Info("starting server", "addr", cfg.GetServerAddr())
	if err := app.Run(cfg.GetServerAddr()); err != nil {
		logger.Error("server failed", "error", err)
		log.Fatal(err)
	}
}

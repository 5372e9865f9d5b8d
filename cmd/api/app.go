package main

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"weather-dashboard/internal/config"
	"weather-dashboard/internal/location"
	"weather-dashboard/internal/weather"
)

// App encapsulates application dependencies
type App struct {
	router          *gin.Engine
	logger          *slog.Logger
	locationService location.Service
	weatherService  weather.Service
	cfg             *config.Config
}

// NewApp creates a new application with injected dependencies
func NewApp(cfg *config.Config, logger *slog.Logger, weatherSvc weather.Service, locationSvc location.Service) *App {
	// Set Gin mode from configuration
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(requestLogger(logger), gin.Recovery())

	app := &App{
		router:          router,
		logger:          logger,
		locationService: locationSvc,
		weatherService:  weatherSvc,
		cfg:             cfg,
	}

	// Register routes
	app.registerRoutes()

	return app
}

// Run starts the HTTP server
func (app *App) Run(addr string) error {
	return app.router.Run(addr)
}

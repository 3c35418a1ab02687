package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"meal-plan-engine/internal/config"
	"meal-plan-engine/internal/database"
	"meal-plan-engine/internal/handlers"
	"meal-plan-engine/internal/logger"
	"meal-plan-engine/internal/middleware"
	"meal-plan-engine/internal/services"
)

// CustomValidator adapts go-playground/validator to echo.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	appLogger := logger.NewWithLevel(logger.ParseLevel(cfg.Logging.Level))

	// Nutrient cache database (ingestion only; plans are never persisted)
	db, err := database.Initialize(cfg.Database.Path)
	if err != nil {
		log.Printf("Failed to initialize database: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Reference data
	ulLoader := services.NewUpperLimitsLoader(filepath.Join(cfg.Data.Path, "reference", "ul_by_demographic.json"))
	carbSources, err := services.LoadScalableCarbSources(filepath.Join(cfg.Data.Path, "reference", "scalable_carb_sources.json"))
	if err != nil {
		log.Fatalf("Failed to load scalable carb sources: %v", err)
	}

	planService := services.NewPlannerService(ulLoader, carbSources, appLogger)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Security())
	e.Use(appLogger.HTTPLogger())
	e.Use(middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute).Middleware())

	middleware.SetupErrorHandler(e)

	e.GET("/health", handlers.HealthCheckHandler())
	e.GET("/ready", handlers.ReadyCheckHandler(db))

	api := e.Group("/api/v1")
	handlers.RegisterPlanRoutes(api, planService)

	// Start server
	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("server stopped", "error", err.Error())
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		appLogger.Error("forced shutdown", "error", err.Error())
	}
}

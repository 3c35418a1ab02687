package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Database  DatabaseConfig
	RateLimit RateLimitConfig
	Search    SearchConfig
	FoodData  FoodDataConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type DataConfig struct {
	// Path holds the reference data directory (upper limits, carb sources)
	// and any recipes_*.json pool files.
	Path string
}

type DatabaseConfig struct {
	// Path is the sqlite file backing the ingredient lookup cache.
	Path string
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type SearchConfig struct {
	AttemptLimit int
}

type FoodDataConfig struct {
	APIKey            string
	BaseURL           string
	RequestsPerMinute int
	RequestTimeout    time.Duration
}

type LoggingConfig struct {
	Level       string // debug, info, warn, error
	EnableDebug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
		},
		Data: DataConfig{
			Path: getEnv("DATA_PATH", "./data"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/nutrient_cache.db"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvInt("RATE_LIMIT", 100),
		},
		Search: SearchConfig{
			AttemptLimit: getEnvInt("ATTEMPT_LIMIT", 50000),
		},
		FoodData: FoodDataConfig{
			APIKey:            getEnv("FOODDATA_API_KEY", ""),
			BaseURL:           getEnv("FOODDATA_BASE_URL", "https://api.nal.usda.gov/fdc/v1"),
			RequestsPerMinute: getEnvInt("FOODDATA_RATE_PER_MINUTE", 30),
			RequestTimeout:    getEnvDuration("FOODDATA_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			EnableDebug: getEnv("ENV", "production") == "development",
		},
	}

	if cfg.Search.AttemptLimit <= 0 {
		return nil, fmt.Errorf("ATTEMPT_LIMIT must be positive, got %d", cfg.Search.AttemptLimit)
	}
	if cfg.FoodData.RequestsPerMinute <= 0 {
		return nil, fmt.Errorf("FOODDATA_RATE_PER_MINUTE must be positive, got %d", cfg.FoodData.RequestsPerMinute)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthCheckHandler reports process liveness.
func HealthCheckHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// ReadyCheckHandler reports readiness, including the nutrient cache database.
func ReadyCheckHandler(db *sql.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db != nil {
			if err := db.Ping(); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
					"ready":  false,
					"reason": "db_unreachable",
				})
			}
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"ready": true})
	}
}

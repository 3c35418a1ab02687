package handlers

import (
	"github.com/labstack/echo/v4"

	"meal-plan-engine/internal/services"
)

// RegisterPlanRoutes mounts the meal plan search API.
func RegisterPlanRoutes(api *echo.Group, planService *services.PlannerService) {
	h := NewPlanHandler(planService)
	api.POST("/meal-plans/search", h.Search)
	api.POST("/meal-plans/export.pdf", h.ExportPDF)
}

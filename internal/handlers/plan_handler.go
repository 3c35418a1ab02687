package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"meal-plan-engine/internal/models"
	"meal-plan-engine/internal/planner"
	"meal-plan-engine/internal/services"
	"meal-plan-engine/internal/utils/pdf"
)

// PlanHandler exposes the meal plan search over HTTP.
type PlanHandler struct {
	planService *services.PlannerService
}

// NewPlanHandler creates a plan handler.
func NewPlanHandler(planService *services.PlannerService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// Search runs a meal plan search. The canonical result envelope is returned
// with HTTP 200 for both search success and search failure; only input and
// data errors map to error statuses.
func (h *PlanHandler) Search(c echo.Context) error {
	var req services.SearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if err := planner.ValidatePlanningHorizon(req.Days); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := planner.ValidateScheduleStructure(req.Profile.Schedule, req.Days); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.planService.RunSearch(c.Request().Context(), &req)
	if err != nil {
		// Input and data errors (including a malformed
		// primary_carb_contribution) reject the request; search failures
		// arrive as results below.
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// exportRequest wraps a result to render as PDF.
type exportRequest struct {
	Result *models.MealPlanResult `json:"result" validate:"required"`
}

// ExportPDF renders a successful plan result as a PDF document.
func (h *PlanHandler) ExportPDF(c echo.Context) error {
	var req exportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if req.Result == nil || !req.Result.Success {
		return echo.NewHTTPError(http.StatusBadRequest, "only successful meal plans can be exported")
	}

	data, err := pdf.RenderMealPlan(req.Result)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	c.Response().Header().Set("Content-Disposition", `attachment; filename="meal-plan.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", data)
}

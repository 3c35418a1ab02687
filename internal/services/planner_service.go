package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"meal-plan-engine/internal/logger"
	"meal-plan-engine/internal/models"
	"meal-plan-engine/internal/planner"
)

// SearchRequest is one meal plan search invocation as received from callers.
type SearchRequest struct {
	Profile      *models.PlanningUserProfile `json:"profile" validate:"required"`
	RecipePool   []models.PlanningRecipe     `json:"recipe_pool" validate:"required,min=1,dive"`
	Days         int                         `json:"days" validate:"required,gte=1,lte=7"`
	AttemptLimit int                         `json:"attempt_limit" validate:"omitempty,gt=0"`
	CollectStats bool                        `json:"collect_stats"`
}

// PlannerService resolves upper limits and runs the meal plan search. One
// invocation owns all mutable search state; the service itself holds only
// immutable reference data and is safe for concurrent use.
type PlannerService struct {
	ulLoader    *UpperLimitsLoader
	carbSources *planner.ScalableCarbSources
	log         *logger.Logger
}

// NewPlannerService creates the service from its reference data collaborators.
func NewPlannerService(ulLoader *UpperLimitsLoader, carbSources *planner.ScalableCarbSources, log *logger.Logger) *PlannerService {
	return &PlannerService{
		ulLoader:    ulLoader,
		carbSources: carbSources,
		log:         log,
	}
}

// RunSearch resolves the user's upper limits and executes the search. Search
// failures are returned as a result with Success=false; the error return is
// reserved for input and data errors.
func (s *PlannerService) RunSearch(ctx context.Context, req *SearchRequest) (*models.MealPlanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	demographic := req.Profile.Demographic
	if demographic == "" {
		demographic = "adult_male"
	}
	resolvedUL, err := ResolveUpperLimits(s.ulLoader, demographic, req.Profile.UpperLimitOverrides)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upper limits: %w", err)
	}

	runID := uuid.New().String()
	s.log.Info("meal plan search started",
		"run_id", runID,
		"days", req.Days,
		"pool_size", len(req.RecipePool),
		"pinned", len(req.Profile.PinnedAssignments),
	)

	result, err := planner.Run(req.Profile, req.RecipePool, req.Days, resolvedUL, planner.Options{
		AttemptLimit: req.AttemptLimit,
		CollectStats: req.CollectStats,
		CarbSources:  s.carbSources,
	})
	if err != nil {
		s.log.Warn("meal plan search rejected", "run_id", runID, "error", err.Error())
		return nil, err
	}

	s.log.Info("meal plan search finished",
		"run_id", runID,
		"success", result.Success,
		"termination_code", result.TerminationCode,
		"failure_mode", result.FailureMode,
	)
	return result, nil
}

package planner

import (
	"strings"

	"golang.org/x/text/cases"

	"meal-plan-engine/internal/models"
)

// RecipeView is a recipe or scaled variant as seen by constraints,
// feasibility, and scoring. Variants reuse the base recipe's ID and expose
// substituted nutrition; VariantIndex 0 is the base recipe.
type RecipeView struct {
	ID                 string
	Ingredients        []models.Ingredient
	CookingTimeMinutes int
	Nutrition          models.NutritionProfile
	VariantIndex       int
}

// viewOf builds the base-recipe view.
func viewOf(r *models.PlanningRecipe) RecipeView {
	return RecipeView{
		ID:                 r.ID,
		Ingredients:        r.Ingredients,
		CookingTimeMinutes: r.CookingTimeMinutes,
		Nutrition:          r.Nutrition,
	}
}

// variantViewOf builds a scaled-variant view sharing the base recipe's ID.
func variantViewOf(r *models.PlanningRecipe, variantIndex int, nutrition models.NutritionProfile) RecipeView {
	return RecipeView{
		ID:                 r.ID,
		Ingredients:        r.Ingredients,
		CookingTimeMinutes: r.CookingTimeMinutes,
		Nutrition:          nutrition,
		VariantIndex:       variantIndex,
	}
}

// micronutrients returns the view's micronutrient amounts keyed by name.
func (v RecipeView) micronutrients() map[string]float64 {
	return v.Nutrition.Micronutrients.ToMap()
}

// normalizeName case-folds and trims an ingredient or food name for matching.
// A Caser is stateful, so one is created per call; searches may run
// concurrently in separate goroutines.
func normalizeName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// normalizedSet folds a name list into a membership set.
func normalizedSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[normalizeName(n)] = true
	}
	return out
}

// searchState is the read view of mutable search state shared by the
// constraint, feasibility, scoring, and ordering layers.
type searchState struct {
	dailyTrackers map[int]*models.DailyTracker
	weekly        *models.WeeklyTracker
	schedule      [][]models.MealSlot
}

// tracker returns the daily tracker for a day, or nil when no slot on that
// day has been assigned yet.
func (s *searchState) tracker(dayIndex int) *models.DailyTracker {
	return s.dailyTrackers[dayIndex]
}

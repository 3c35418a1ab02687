package planner

import (
	"errors"
	"fmt"

	"meal-plan-engine/internal/models"
)

// Defaults for the downscaling knobs when the profile leaves them unset.
const (
	defaultMaxScalingSteps     = 4
	defaultScalingStepFraction = 0.10
)

// ErrInvalidCarbContribution marks a primary_carb_contribution that would
// drive a variant's nutrition negative. This is a data error, not a search
// failure; the orchestrator never swallows it.
var ErrInvalidCarbContribution = errors.New("invalid primary carb contribution")

// ScalableCarbSources is the reference data for primary-carb downscaling.
type ScalableCarbSources struct {
	RiceVariants   []string `json:"rice_variants"`
	PotatoVariants []string `json:"potato_variants"`
}

// carbScaler generates downscaled recipe variants for calorie-excess
// rejections on sedentary, non-pinned slots.
type carbScaler struct {
	sources map[string]bool
	pinned  map[models.PinKey]string
	steps   int
	sigma   float64
}

// newCarbScaler builds the scaler from profile knobs and reference data, or
// returns nil when the feature is disabled. The effective step fraction is
// capped so that steps*sigma < 1.
func newCarbScaler(profile *models.PlanningUserProfile, sources *ScalableCarbSources) *carbScaler {
	if !profile.EnablePrimaryCarbDownscaling || sources == nil {
		return nil
	}
	steps := profile.MaxScalingSteps
	if steps < 1 {
		steps = defaultMaxScalingSteps
	}
	sigma := profile.ScalingStepFraction
	if sigma <= 0 {
		sigma = defaultScalingStepFraction
	}
	if sigma > 1 {
		sigma = 1
	}
	if float64(steps)*sigma >= 1 {
		sigma = 0.99 / float64(steps)
	}
	allowed := make(map[string]bool, len(sources.RiceVariants)+len(sources.PotatoVariants))
	for _, v := range sources.RiceVariants {
		allowed[normalizeName(v)] = true
	}
	for _, v := range sources.PotatoVariants {
		allowed[normalizeName(v)] = true
	}
	return &carbScaler{
		sources: allowed,
		pinned:  profile.PinnedByKey(),
		steps:   steps,
		sigma:   sigma,
	}
}

// isScalable reports whether the recipe carries a primary carb contribution
// from a scalable source.
func (c *carbScaler) isScalable(r *models.PlanningRecipe) bool {
	if r.PrimaryCarbContribution == nil || r.PrimaryCarbSource == "" {
		return false
	}
	return c.sources[normalizeName(r.PrimaryCarbSource)]
}

// variantNutrition computes the nutrition for scaling step i in 1..steps:
// base - contribution + contribution*(1 - i*sigma). Any macro or
// micronutrient going negative is a data error.
func (c *carbScaler) variantNutrition(r *models.PlanningRecipe, step int) (models.NutritionProfile, error) {
	contrib := *r.PrimaryCarbContribution
	scale := 1 - float64(step)*c.sigma
	if scale <= 0 {
		scale = 1e-9
	}

	scaled := models.NutritionProfile{
		Calories: contrib.Calories * scale,
		ProteinG: contrib.ProteinG * scale,
		FatG:     contrib.FatG * scale,
		CarbsG:   contrib.CarbsG * scale,
	}
	if contrib.Micronutrients != nil {
		m := &models.MicronutrientProfile{}
		for name, v := range contrib.Micronutrients.ToMap() {
			m.SetNutrient(name, v*scale)
		}
		scaled.Micronutrients = m
	}

	variant := r.Nutrition.Sub(contrib).Add(scaled)
	if variant.Calories < 0 || variant.ProteinG < 0 || variant.FatG < 0 || variant.CarbsG < 0 {
		return models.NutritionProfile{}, fmt.Errorf("recipe %s step %d: %w: macro would become negative", r.ID, step, ErrInvalidCarbContribution)
	}
	if variant.Micronutrients != nil {
		for name, v := range variant.Micronutrients.ToMap() {
			if v < 0 {
				return models.NutritionProfile{}, fmt.Errorf("recipe %s step %d: %w: %s would become negative", r.ID, step, ErrInvalidCarbContribution, name)
			}
		}
	}
	return variant, nil
}

// survivingVariants generates the scaled variants for candidate step 8.
// Variants are produced only for sedentary, non-pinned slots, only for
// recipes recorded as calorie-excess rejections, and each variant is
// re-checked against HC-1, HC-2, HC-3, HC-5, HC-8 and FC-1..FC-3.
func (c *carbScaler) survivingVariants(
	pool []models.PlanningRecipe,
	calorieExcess map[string]bool,
	dayIndex, slotIndex int,
	sc slotContext,
	state *searchState,
	profile *models.PlanningUserProfile,
	resolvedUL *models.UpperLimits,
	bounds *macroBounds,
) ([]RecipeView, error) {
	if !sc.activity[ContextSedentary] {
		return nil, nil
	}
	if _, isPinned := c.pinned[models.PinKey{Day: dayIndex + 1, Slot: slotIndex}]; isPinned {
		return nil, nil
	}

	tracker := state.tracker(dayIndex)
	excluded := normalizedSet(profile.ExcludedIngredients)

	var out []RecipeView
	for i := range pool {
		r := &pool[i]
		if !calorieExcess[r.ID] || !c.isScalable(r) {
			continue
		}
		for step := 1; step <= c.steps; step++ {
			if 1-float64(step)*c.sigma <= 0 {
				continue
			}
			nutrition, err := c.variantNutrition(r, step)
			if err != nil {
				return nil, err
			}
			view := variantViewOf(r, step, nutrition)
			if !hc1ExcludedIngredients(view, excluded) {
				continue
			}
			if !hc2NoSameDayReuse(view, tracker) {
				continue
			}
			if !hc3CookingTimeBound(view, sc.slot) {
				continue
			}
			if !hc5MaxDailyCalories(view, tracker, profile) {
				continue
			}
			if dayIndex > 0 && !sc.isWorkout && !hc8CrossDayNonWorkoutReuse(view, dayIndex, state, sc.isWorkout) {
				continue
			}
			if !fc1fc2fc3(view, dayIndex, slotIndex, state, profile, resolvedUL, bounds) {
				continue
			}
			out = append(out, view)
		}
	}
	return out, nil
}

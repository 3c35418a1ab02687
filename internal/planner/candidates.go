package planner

import (
	"sort"

	"meal-plan-engine/internal/models"
)

// candidateResult is the outcome of candidate generation at one decision
// point. calorieExcess records recipes rejected solely for calorie overflow
// (HC-5, or FC-1's ceiling branch), the input to primary-carb downscaling.
type candidateResult struct {
	candidates       []RecipeView
	triggerBacktrack bool
	calorieExcess    map[string]bool
}

// generateCandidates computes C(d, s): the pool filtered through HC-1, HC-2,
// HC-3, HC-5, HC-8 (day > 0, non-workout only), then FC-1, FC-2, FC-3, with
// scaled variants appended when primary-carb downscaling applies. It signals
// backtrack when the surviving set is empty or FC-5 finds a future slot on
// the same day with no HC-eligible recipe. State is never modified.
func generateCandidates(
	pool []models.PlanningRecipe,
	dayIndex, slotIndex int,
	state *searchState,
	profile *models.PlanningUserProfile,
	resolvedUL *models.UpperLimits,
	bounds *macroBounds,
	scaling *carbScaler,
) (candidateResult, error) {
	result := candidateResult{calorieExcess: make(map[string]bool)}
	if dayIndex < 0 || dayIndex >= len(state.schedule) || slotIndex < 0 || slotIndex >= len(state.schedule[dayIndex]) {
		result.triggerBacktrack = true
		return result, nil
	}

	sc := contextFor(state.schedule, dayIndex, slotIndex, profile.ActivitySchedule)
	tracker := state.tracker(dayIndex)
	excluded := normalizedSet(profile.ExcludedIngredients)

	surviving := make([]RecipeView, 0, len(pool))
	for i := range pool {
		view := viewOf(&pool[i])
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
			result.calorieExcess[view.ID] = true
			continue
		}
		if dayIndex > 0 && !sc.isWorkout && !hc8CrossDayNonWorkoutReuse(view, dayIndex, state, sc.isWorkout) {
			continue
		}
		surviving = append(surviving, view)
	}

	for _, view := range surviving {
		if !fc1DailyCalories(view, dayIndex, slotIndex, state, profile, bounds) {
			if rejectedSolelyForCalorieCeiling(view, dayIndex, state, profile) {
				result.calorieExcess[view.ID] = true
			}
			continue
		}
		if !fc2DailyMacros(view, dayIndex, slotIndex, state, profile, bounds) {
			continue
		}
		if !fc3IncrementalUL(view, dayIndex, state, resolvedUL) {
			continue
		}
		result.candidates = append(result.candidates, view)
	}

	// Step 8: scaled variants for calorie-excess rejections.
	if scaling != nil {
		variants, err := scaling.survivingVariants(pool, result.calorieExcess, dayIndex, slotIndex, sc, state, profile, resolvedUL, bounds)
		if err != nil {
			return result, err
		}
		result.candidates = append(result.candidates, variants...)
	}

	sort.Slice(result.candidates, func(i, j int) bool {
		if result.candidates[i].ID != result.candidates[j].ID {
			return result.candidates[i].ID < result.candidates[j].ID
		}
		return result.candidates[i].VariantIndex < result.candidates[j].VariantIndex
	})

	if len(result.candidates) == 0 {
		result.triggerBacktrack = true
	} else if futureSlotHasZeroEligible(pool, dayIndex, slotIndex, state, profile) {
		result.triggerBacktrack = true
	}

	return result, nil
}

// rejectedSolelyForCalorieCeiling reports whether FC-1 would reject the view
// purely because the tentative total exceeds max_daily_calories.
func rejectedSolelyForCalorieCeiling(view RecipeView, dayIndex int, state *searchState, profile *models.PlanningUserProfile) bool {
	if profile.MaxDailyCalories == nil {
		return false
	}
	var current float64
	if t := state.tracker(dayIndex); t != nil {
		current = t.CaloriesConsumed
	}
	return current+view.Nutrition.Calories > float64(*profile.MaxDailyCalories)
}

// hcOnlyEligible filters the pool by HC-1, HC-2, HC-3 and HC-8 only, the
// optimistic eligibility used by FC-5 for future slots.
func hcOnlyEligible(pool []models.PlanningRecipe, dayIndex, slotIndex int, state *searchState, profile *models.PlanningUserProfile) int {
	sc := contextFor(state.schedule, dayIndex, slotIndex, profile.ActivitySchedule)
	tracker := state.tracker(dayIndex)
	excluded := normalizedSet(profile.ExcludedIngredients)

	count := 0
	for i := range pool {
		view := viewOf(&pool[i])
		if !hc1ExcludedIngredients(view, excluded) {
			continue
		}
		if !hc2NoSameDayReuse(view, tracker) {
			continue
		}
		if !hc3CookingTimeBound(view, sc.slot) {
			continue
		}
		if dayIndex > 0 && !sc.isWorkout && !hc8CrossDayNonWorkoutReuse(view, dayIndex, state, sc.isWorkout) {
			continue
		}
		count++
	}
	return count
}

// futureSlotHasZeroEligible implements FC-5: after this slot, every still
// unassigned slot of the same day must retain at least one HC-eligible
// recipe. An empty future slot triggers backtrack now.
func futureSlotHasZeroEligible(pool []models.PlanningRecipe, dayIndex, slotIndex int, state *searchState, profile *models.PlanningUserProfile) bool {
	daySlots := state.schedule[dayIndex]
	for s := slotIndex + 1; s < len(daySlots); s++ {
		if hcOnlyEligible(pool, dayIndex, s, state, profile) == 0 {
			return true
		}
	}
	return false
}

package planner

import (
	"meal-plan-engine/internal/models"
)

// Hard constraint identifiers.
var hcIdentifiers = []string{"HC-1", "HC-2", "HC-3", "HC-4", "HC-5", "HC-6", "HC-8"}

// containsExcludedIngredient reports whether any ingredient name (case-folded,
// trimmed) appears in the excluded set.
func containsExcludedIngredient(ingredients []models.Ingredient, excluded map[string]bool) bool {
	if len(excluded) == 0 {
		return false
	}
	for _, ing := range ingredients {
		if excluded[normalizeName(ing.Name)] {
			return true
		}
	}
	return false
}

// hc1ExcludedIngredients: the recipe must contain no excluded ingredient.
func hc1ExcludedIngredients(view RecipeView, excluded map[string]bool) bool {
	return !containsExcludedIngredient(view.Ingredients, excluded)
}

// hc2NoSameDayReuse: a recipe ID may appear at most once per day. Variants
// share the base recipe's ID.
func hc2NoSameDayReuse(view RecipeView, tracker *models.DailyTracker) bool {
	if tracker == nil {
		return true
	}
	return !tracker.UsedRecipeIDs[view.ID]
}

// hc3CookingTimeBound: cooking time within the slot's bound; busyness 4 exempt.
func hc3CookingTimeBound(view RecipeView, slot models.MealSlot) bool {
	maxMinutes, bounded := CookingTimeMax(slot.BusynessLevel)
	if !bounded {
		return true
	}
	return view.CookingTimeMinutes <= maxMinutes
}

// hc4DailyUL: adding the recipe must not push any nutrient with a non-nil UL
// strictly above its limit. Equality at the limit is allowed.
func hc4DailyUL(view RecipeView, tracker *models.DailyTracker, resolvedUL *models.UpperLimits) bool {
	if resolvedUL == nil {
		return true
	}
	recipeMicro := view.micronutrients()
	for _, name := range models.NutrientNames() {
		ul := resolvedUL.Limit(name)
		if ul == nil {
			continue
		}
		var current float64
		if tracker != nil {
			current = tracker.MicronutrientsConsumed[name]
		}
		if current+recipeMicro[name] > *ul {
			return false
		}
	}
	return true
}

// hc5MaxDailyCalories: when a daily calorie ceiling is set, the day's total
// after adding the recipe must not exceed it. Equality is allowed.
func hc5MaxDailyCalories(view RecipeView, tracker *models.DailyTracker, profile *models.PlanningUserProfile) bool {
	if profile.MaxDailyCalories == nil {
		return true
	}
	var current float64
	if tracker != nil {
		current = tracker.CaloriesConsumed
	}
	return current+view.Nutrition.Calories <= float64(*profile.MaxDailyCalories)
}

// hc6PinnedAssignment: a pinned slot only accepts its pinned recipe.
func hc6PinnedAssignment(view RecipeView, pinned map[models.PinKey]string, dayIndex, slotIndex int) bool {
	pinnedID, ok := pinned[models.PinKey{Day: dayIndex + 1, Slot: slotIndex}]
	if !ok {
		return true
	}
	return view.ID == pinnedID
}

// hc8CrossDayNonWorkoutReuse: for day > 0 on a non-workout slot, the recipe
// must not repeat the previous day's non-workout recipes. Day 0 and workout
// slots are exempt.
func hc8CrossDayNonWorkoutReuse(view RecipeView, dayIndex int, state *searchState, isWorkout bool) bool {
	if dayIndex <= 0 || isWorkout {
		return true
	}
	prev := state.tracker(dayIndex - 1)
	if prev == nil {
		return true
	}
	return !prev.NonWorkoutRecipeIDs[view.ID]
}

// CheckAllHardConstraints evaluates HC-1 through HC-6 and HC-8 for one
// candidate placement. It returns nil when all pass, or the violated
// constraint identifiers in canonical order.
func CheckAllHardConstraints(
	view RecipeView,
	slot models.MealSlot,
	dayIndex, slotIndex int,
	state *searchState,
	profile *models.PlanningUserProfile,
	resolvedUL *models.UpperLimits,
	isWorkout bool,
) []string {
	tracker := state.tracker(dayIndex)
	excluded := normalizedSet(profile.ExcludedIngredients)
	pinned := profile.PinnedByKey()

	var violated []string
	if !hc1ExcludedIngredients(view, excluded) {
		violated = append(violated, "HC-1")
	}
	if !hc2NoSameDayReuse(view, tracker) {
		violated = append(violated, "HC-2")
	}
	if !hc3CookingTimeBound(view, slot) {
		violated = append(violated, "HC-3")
	}
	if !hc4DailyUL(view, tracker, resolvedUL) {
		violated = append(violated, "HC-4")
	}
	if !hc5MaxDailyCalories(view, tracker, profile) {
		violated = append(violated, "HC-5")
	}
	if !hc6PinnedAssignment(view, pinned, dayIndex, slotIndex) {
		violated = append(violated, "HC-6")
	}
	if !hc8CrossDayNonWorkoutReuse(view, dayIndex, state, isWorkout) {
		violated = append(violated, "HC-8")
	}
	return violated
}

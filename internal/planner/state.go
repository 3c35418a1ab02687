package planner

import (
	"fmt"

	"meal-plan-engine/internal/models"
)

// ValidatePlanningHorizon checks that the horizon is 1 to 7 days.
func ValidatePlanningHorizon(days int) error {
	if days < models.PlanningDaysMin || days > models.PlanningDaysMax {
		return fmt.Errorf("planning horizon must be in [%d, %d]; got %d",
			models.PlanningDaysMin, models.PlanningDaysMax, days)
	}
	return nil
}

// ValidateScheduleStructure checks that the schedule has exactly days days,
// each with 1 to 8 slots.
func ValidateScheduleStructure(schedule [][]models.MealSlot, days int) error {
	if len(schedule) != days {
		return fmt.Errorf("schedule must have exactly %d days; got %d", days, len(schedule))
	}
	for dayIndex, daySlots := range schedule {
		n := len(daySlots)
		if n < models.MinSlotsPerDay {
			return fmt.Errorf("day %d has %d slots; minimum is %d", dayIndex+1, n, models.MinSlotsPerDay)
		}
		if n > models.MaxSlotsPerDay {
			return fmt.Errorf("day %d has %d slots; maximum is %d", dayIndex+1, n, models.MaxSlotsPerDay)
		}
	}
	return nil
}

// PinnedValidationResult is the outcome of pinned-assignment pre-validation.
// On failure, FailedHC names the violated hard constraint and the pin
// location identifies the conflicting assignment for FM-3 reporting.
type PinnedValidationResult struct {
	Success        bool
	FailedHC       string
	FailedPinDay   int // 1-based
	FailedPinSlot  int
	FailedRecipeID string
}

func pinFailure(hc string, day, slot int, recipeID string) PinnedValidationResult {
	return PinnedValidationResult{
		Success:        false,
		FailedHC:       hc,
		FailedPinDay:   day,
		FailedPinSlot:  slot,
		FailedRecipeID: recipeID,
	}
}

// ValidatePinnedAssignments inspects every pin under HC-1, HC-2, HC-3, HC-5
// and HC-8 without constructing state. Pins whose day or slot is out of range
// or whose recipe is absent from the pool fail with HC-6. The caller must not
// build state or enter search on failure.
func ValidatePinnedAssignments(profile *models.PlanningUserProfile, recipeByID map[string]*models.PlanningRecipe, days int) (PinnedValidationResult, error) {
	if len(profile.PinnedAssignments) == 0 {
		return PinnedValidationResult{Success: true}, nil
	}
	if err := ValidatePlanningHorizon(days); err != nil {
		return PinnedValidationResult{}, err
	}
	if err := ValidateScheduleStructure(profile.Schedule, days); err != nil {
		return PinnedValidationResult{}, err
	}

	schedule := profile.Schedule
	excluded := normalizedSet(profile.ExcludedIngredients)

	for _, pin := range profile.PinnedAssignments {
		if pin.Day < 1 || pin.Day > days {
			return pinFailure("HC-6", pin.Day, pin.SlotIndex, pin.RecipeID), nil
		}
		dayIndex := pin.Day - 1
		if pin.SlotIndex < 0 || pin.SlotIndex >= len(schedule[dayIndex]) {
			return pinFailure("HC-6", pin.Day, pin.SlotIndex, pin.RecipeID), nil
		}
		recipe, ok := recipeByID[pin.RecipeID]
		if !ok {
			return pinFailure("HC-6", pin.Day, pin.SlotIndex, pin.RecipeID), nil
		}

		// HC-1
		if containsExcludedIngredient(recipe.Ingredients, excluded) {
			return pinFailure("HC-1", pin.Day, pin.SlotIndex, pin.RecipeID), nil
		}

		// HC-3
		slot := schedule[dayIndex][pin.SlotIndex]
		if maxMinutes, bounded := CookingTimeMax(slot.BusynessLevel); bounded && recipe.CookingTimeMinutes > maxMinutes {
			return pinFailure("HC-3", pin.Day, pin.SlotIndex, pin.RecipeID), nil
		}

		// HC-5: a single pinned recipe already over the daily ceiling
		if profile.MaxDailyCalories != nil && recipe.Nutrition.Calories > float64(*profile.MaxDailyCalories) {
			return pinFailure("HC-5", pin.Day, pin.SlotIndex, pin.RecipeID), nil
		}
	}

	// HC-2: two pins on the same day sharing a recipe ID.
	seenByDay := make(map[int]map[string]bool)
	for _, pin := range profile.PinnedAssignments {
		if seenByDay[pin.Day] == nil {
			seenByDay[pin.Day] = make(map[string]bool)
		}
		if seenByDay[pin.Day][pin.RecipeID] {
			return pinFailure("HC-2", pin.Day, pin.SlotIndex, pin.RecipeID), nil
		}
		seenByDay[pin.Day][pin.RecipeID] = true
	}

	// HC-8: consecutive-day non-workout repetition among pins.
	nonWorkoutByDay := make(map[int]map[string]bool, days)
	for day := 1; day <= days; day++ {
		dayIndex := day - 1
		daySlots := schedule[dayIndex]
		ids := make(map[string]bool)
		for _, pin := range profile.PinnedAssignments {
			if pin.Day != day {
				continue
			}
			ctx := ActivityContext(daySlots[pin.SlotIndex], pin.SlotIndex, daySlots, nextDayFirstSlot(schedule, dayIndex), profile.ActivitySchedule)
			if !IsWorkoutSlot(ctx) {
				ids[pin.RecipeID] = true
			}
		}
		nonWorkoutByDay[day] = ids
	}
	for day := 1; day < days; day++ {
		for _, pin := range profile.PinnedAssignments {
			if pin.Day != day+1 {
				continue
			}
			if nonWorkoutByDay[day][pin.RecipeID] && nonWorkoutByDay[day+1][pin.RecipeID] {
				return pinFailure("HC-8", pin.Day, pin.SlotIndex, pin.RecipeID), nil
			}
		}
	}

	return PinnedValidationResult{Success: true}, nil
}

// InitialState is S0: the pinned assignments applied in decision order, with
// daily trackers only for days that have at least one pin. The weekly tracker
// always starts at zero regardless of pinned coverage; weekly totals
// accumulate only as days are validated during search.
type InitialState struct {
	Assignments   []models.Assignment
	DailyTrackers map[int]*models.DailyTracker
	WeeklyTracker *models.WeeklyTracker
}

// BuildInitialState produces S0 from the pinned assignments. The caller must
// run ValidatePinnedAssignments first and only proceed on success.
func BuildInitialState(profile *models.PlanningUserProfile, recipeByID map[string]*models.PlanningRecipe, days int) (*InitialState, error) {
	if err := ValidatePlanningHorizon(days); err != nil {
		return nil, err
	}
	if err := ValidateScheduleStructure(profile.Schedule, days); err != nil {
		return nil, err
	}

	schedule := profile.Schedule
	pinned := profile.PinnedByKey()
	state := &InitialState{
		DailyTrackers: make(map[int]*models.DailyTracker),
		WeeklyTracker: models.NewWeeklyTracker(days, profile.MicronutrientTargets),
	}

	for dayIndex := 0; dayIndex < days; dayIndex++ {
		daySlots := schedule[dayIndex]
		for slotIndex := range daySlots {
			recipeID, ok := pinned[models.PinKey{Day: dayIndex + 1, Slot: slotIndex}]
			if !ok {
				continue
			}
			recipe := recipeByID[recipeID]
			tracker := state.DailyTrackers[dayIndex]
			if tracker == nil {
				tracker = models.NewDailyTracker(len(daySlots))
				state.DailyTrackers[dayIndex] = tracker
			}
			ctx := ActivityContext(daySlots[slotIndex], slotIndex, daySlots, nextDayFirstSlot(schedule, dayIndex), profile.ActivitySchedule)
			applyToTracker(tracker, viewOf(recipe), IsWorkoutSlot(ctx))
			state.Assignments = append(state.Assignments, models.Assignment{
				DayIndex:  dayIndex,
				SlotIndex: slotIndex,
				RecipeID:  recipeID,
			})
		}
	}

	return state, nil
}

// applyToTracker folds one recipe view into a daily tracker.
func applyToTracker(t *models.DailyTracker, view RecipeView, isWorkout bool) {
	t.CaloriesConsumed += view.Nutrition.Calories
	t.ProteinConsumed += view.Nutrition.ProteinG
	t.FatConsumed += view.Nutrition.FatG
	t.CarbsConsumed += view.Nutrition.CarbsG
	for name, amount := range view.micronutrients() {
		t.MicronutrientsConsumed[name] += amount
	}
	t.UsedRecipeIDs[view.ID] = true
	if !isWorkout {
		t.NonWorkoutRecipeIDs[view.ID] = true
	}
	t.SlotsAssigned++
}

// removeFromTracker reverses applyToTracker for one recipe view.
func removeFromTracker(t *models.DailyTracker, view RecipeView, isWorkout bool) {
	t.CaloriesConsumed -= view.Nutrition.Calories
	t.ProteinConsumed -= view.Nutrition.ProteinG
	t.FatConsumed -= view.Nutrition.FatG
	t.CarbsConsumed -= view.Nutrition.CarbsG
	for name, amount := range view.micronutrients() {
		t.MicronutrientsConsumed[name] -= amount
	}
	delete(t.UsedRecipeIDs, view.ID)
	if !isWorkout {
		delete(t.NonWorkoutRecipeIDs, view.ID)
	}
	t.SlotsAssigned--
}

// AdjustedDailyTarget returns the adjusted daily target for a micronutrient:
// base RDI plus an equal share of the unmet carryover across the remaining
// days (the current day included).
func AdjustedDailyTarget(baseDailyTarget, carryover float64, daysRemaining int) float64 {
	if daysRemaining <= 0 {
		return baseDailyTarget
	}
	return baseDailyTarget + carryover/float64(daysRemaining)
}

// Per-meal target adjustment factors.
const (
	preWorkoutProteinFactor  = 0.8
	preWorkoutCarbsFactor    = 1.1
	postWorkoutCaloriesFactor = 1.1
	postWorkoutProteinFactor  = 1.2
	postWorkoutCarbsFactor    = 1.1
	highSatietyCaloriesFactor = 1.1
	highSatietyProteinFactor  = 1.1
	highSatietyFatFactor      = 1.1
)

// PerMealTarget is the macro target for one decision point.
type PerMealTarget struct {
	Calories float64
	ProteinG float64
	FatMin   float64
	FatMax   float64
	CarbsG   float64
}

// perMealTarget distributes the day's remaining budget over the unassigned
// slots, then applies activity-context and satiety adjustments.
func perMealTarget(tracker *models.DailyTracker, profile *models.PlanningUserProfile, activity map[string]bool, satiety string) PerMealTarget {
	slotsLeft := tracker.SlotsTotal - tracker.SlotsAssigned
	if slotsLeft <= 0 {
		slotsLeft = 1
	}
	div := float64(slotsLeft)

	t := PerMealTarget{
		Calories: (float64(profile.DailyCalories) - tracker.CaloriesConsumed) / div,
		ProteinG: (profile.DailyProteinG - tracker.ProteinConsumed) / div,
		FatMin:   (profile.DailyFatG.Min - tracker.FatConsumed) / div,
		FatMax:   (profile.DailyFatG.Max - tracker.FatConsumed) / div,
		CarbsG:   (profile.DailyCarbsG - tracker.CarbsConsumed) / div,
	}

	if activity[ContextPreWorkout] {
		t.ProteinG *= preWorkoutProteinFactor
		t.CarbsG *= preWorkoutCarbsFactor
	}
	if activity[ContextPostWorkout] {
		t.Calories *= postWorkoutCaloriesFactor
		t.ProteinG *= postWorkoutProteinFactor
		t.CarbsG *= postWorkoutCarbsFactor
	}
	if satiety == SatietyHigh {
		t.Calories *= highSatietyCaloriesFactor
		t.ProteinG *= highSatietyProteinFactor
		t.FatMin *= highSatietyFatFactor
		t.FatMax *= highSatietyFatFactor
	}

	return t
}

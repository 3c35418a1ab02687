package models

// Schedule bounds for the planning subsystem.
const (
	MinSlotsPerDay  = 1
	MaxSlotsPerDay  = 8
	PlanningDaysMin = 1
	PlanningDaysMax = 7
)

// Ingredient represents an ingredient in a recipe.
type Ingredient struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Unit     string  `json:"unit"`
	IsToTaste bool   `json:"is_to_taste,omitempty"`
}

// MealSlot represents a single meal slot for one day.
//
// Slot order within a day is the listed order, not sorted by time.
type MealSlot struct {
	Time          string `json:"time" validate:"required"`
	BusynessLevel int    `json:"busyness_level" validate:"required,gte=1,lte=4"`
	MealType      string `json:"meal_type"`
}

// PlanningRecipe represents a recipe as consumed by the planner. Nutrition is
// pre-computed before the planner runs; PrimaryCarbContribution and
// PrimaryCarbSource are used only by primary-carb downscaling.
type PlanningRecipe struct {
	ID                      string            `json:"id" validate:"required"`
	Name                    string            `json:"name"`
	Ingredients             []Ingredient      `json:"ingredients"`
	CookingTimeMinutes      int               `json:"cooking_time_minutes" validate:"gt=0"`
	Nutrition               NutritionProfile  `json:"nutrition"`
	PrimaryCarbContribution *NutritionProfile `json:"primary_carb_contribution,omitempty"`
	PrimaryCarbSource       string            `json:"primary_carb_source,omitempty"`
}

// FatRange represents a daily fat target as a hard [min, max] range in grams.
type FatRange struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

// Midpoint returns the center of the range.
func (r FatRange) Midpoint() float64 { return (r.Min + r.Max) / 2 }

// HalfRange returns half the width of the range.
func (r FatRange) HalfRange() float64 { return (r.Max - r.Min) / 2 }

// WorkoutWindow represents the user's workout window as HH:MM times.
type WorkoutWindow struct {
	WorkoutStart string `json:"workout_start"`
	WorkoutEnd   string `json:"workout_end"`
}

// PinnedAssignment represents a user-fixed (day, slot) -> recipe assignment.
// Day is 1-based, SlotIndex is 0-based. Pins always use the base recipe.
type PinnedAssignment struct {
	Day       int    `json:"day" validate:"gte=1"`
	SlotIndex int    `json:"slot_index" validate:"gte=0"`
	RecipeID  string `json:"recipe_id" validate:"required"`
}

// PinKey identifies a pinned slot: Day is 1-based, Slot is 0-based.
type PinKey struct {
	Day  int
	Slot int
}

// PlanningUserProfile represents the user inputs to the meal plan search.
type PlanningUserProfile struct {
	DailyCalories    int      `json:"daily_calories" validate:"gt=0"`
	DailyProteinG    float64  `json:"daily_protein_g" validate:"gt=0"`
	DailyFatG        FatRange `json:"daily_fat_g"`
	DailyCarbsG      float64  `json:"daily_carbs_g" validate:"gt=0"`
	MaxDailyCalories *int     `json:"max_daily_calories,omitempty"`

	Schedule            [][]MealSlot       `json:"schedule" validate:"required,dive,dive"`
	ExcludedIngredients []string           `json:"excluded_ingredients,omitempty"`
	LikedFoods          []string           `json:"liked_foods,omitempty"`
	Demographic         string             `json:"demographic"`
	UpperLimitOverrides map[string]*float64 `json:"upper_limits_overrides,omitempty"`
	PinnedAssignments   []PinnedAssignment `json:"pinned_assignments,omitempty"`
	MicronutrientTargets map[string]float64 `json:"micronutrient_targets,omitempty"`
	ActivitySchedule    *WorkoutWindow     `json:"activity_schedule,omitempty"`

	EnablePrimaryCarbDownscaling bool    `json:"enable_primary_carb_downscaling"`
	MaxScalingSteps              int     `json:"max_scaling_steps" validate:"omitempty,gte=1,lte=10"`
	ScalingStepFraction          float64 `json:"scaling_step_fraction" validate:"gte=0,lte=1"`
}

// PinnedByKey returns the pinned assignments indexed by (day, slot).
func (p *PlanningUserProfile) PinnedByKey() map[PinKey]string {
	out := make(map[PinKey]string, len(p.PinnedAssignments))
	for _, pin := range p.PinnedAssignments {
		out[PinKey{Day: pin.Day, Slot: pin.SlotIndex}] = pin.RecipeID
	}
	return out
}

// Assignment represents one placed recipe: (day_index, slot_index, recipe_id,
// variant_index). Indices are 0-based. VariantIndex 0 is the base recipe and
// is omitted from serialized output.
type Assignment struct {
	DayIndex     int    `json:"day_index"`
	SlotIndex    int    `json:"slot_index"`
	RecipeID     string `json:"recipe_id"`
	VariantIndex int    `json:"variant_index,omitempty"`
}

// DailyTracker represents running per-day state during search.
//
// Invariants: SlotsAssigned <= SlotsTotal; len(UsedRecipeIDs) == SlotsAssigned;
// NonWorkoutRecipeIDs is a subset of UsedRecipeIDs; consumed totals equal the
// sum of assigned variants' nutrition for the day.
type DailyTracker struct {
	CaloriesConsumed float64 `json:"calories_consumed"`
	ProteinConsumed  float64 `json:"protein_consumed"`
	FatConsumed      float64 `json:"fat_consumed"`
	CarbsConsumed    float64 `json:"carbs_consumed"`

	MicronutrientsConsumed map[string]float64 `json:"micronutrients_consumed"`
	UsedRecipeIDs          map[string]bool    `json:"-"`
	NonWorkoutRecipeIDs    map[string]bool    `json:"-"`

	SlotsAssigned int `json:"slots_assigned"`
	SlotsTotal    int `json:"slots_total"`
}

// NewDailyTracker creates an empty tracker for a day with slotsTotal slots.
func NewDailyTracker(slotsTotal int) *DailyTracker {
	return &DailyTracker{
		MicronutrientsConsumed: make(map[string]float64),
		UsedRecipeIDs:          make(map[string]bool),
		NonWorkoutRecipeIDs:    make(map[string]bool),
		SlotsTotal:             slotsTotal,
	}
}

// Clone returns a deep copy of the tracker. Best-seen snapshots must never
// alias live search state.
func (t *DailyTracker) Clone() *DailyTracker {
	out := &DailyTracker{
		CaloriesConsumed:       t.CaloriesConsumed,
		ProteinConsumed:        t.ProteinConsumed,
		FatConsumed:            t.FatConsumed,
		CarbsConsumed:          t.CarbsConsumed,
		MicronutrientsConsumed: make(map[string]float64, len(t.MicronutrientsConsumed)),
		UsedRecipeIDs:          make(map[string]bool, len(t.UsedRecipeIDs)),
		NonWorkoutRecipeIDs:    make(map[string]bool, len(t.NonWorkoutRecipeIDs)),
		SlotsAssigned:          t.SlotsAssigned,
		SlotsTotal:             t.SlotsTotal,
	}
	for k, v := range t.MicronutrientsConsumed {
		out.MicronutrientsConsumed[k] = v
	}
	for k := range t.UsedRecipeIDs {
		out.UsedRecipeIDs[k] = true
	}
	for k := range t.NonWorkoutRecipeIDs {
		out.NonWorkoutRecipeIDs[k] = true
	}
	return out
}

// MicronutrientProfile converts the consumed micronutrient map into the fixed
// schema for UL validation.
func (t *DailyTracker) MicronutrientProfile() *MicronutrientProfile {
	return MicronutrientsFromMap(t.MicronutrientsConsumed)
}

// DayNutrition returns the day's consumed totals as a NutritionProfile.
func (t *DailyTracker) DayNutrition() NutritionProfile {
	return NutritionProfile{
		Calories:       t.CaloriesConsumed,
		ProteinG:       t.ProteinConsumed,
		FatG:           t.FatConsumed,
		CarbsG:         t.CarbsConsumed,
		Micronutrients: t.MicronutrientProfile(),
	}
}

// WeeklyTracker represents running state across planned days. A day
// contributes to WeeklyTotals exactly once, when it passes daily validation.
type WeeklyTracker struct {
	WeeklyTotals   NutritionProfile   `json:"weekly_totals"`
	DaysCompleted  int                `json:"days_completed"`
	DaysRemaining  int                `json:"days_remaining"`
	CarryoverNeeds map[string]float64 `json:"carryover_needs"`
}

// NewWeeklyTracker creates a weekly tracker for a horizon of days with zero
// totals and zero carryover for each tracked nutrient.
func NewWeeklyTracker(days int, trackedNutrients map[string]float64) *WeeklyTracker {
	carryover := make(map[string]float64, len(trackedNutrients))
	for n := range trackedNutrients {
		carryover[n] = 0
	}
	return &WeeklyTracker{
		DaysCompleted:  0,
		DaysRemaining:  days,
		CarryoverNeeds: carryover,
	}
}

// Clone returns a deep copy of the weekly tracker.
func (w *WeeklyTracker) Clone() *WeeklyTracker {
	out := &WeeklyTracker{
		WeeklyTotals:   w.WeeklyTotals,
		DaysCompleted:  w.DaysCompleted,
		DaysRemaining:  w.DaysRemaining,
		CarryoverNeeds: make(map[string]float64, len(w.CarryoverNeeds)),
	}
	if w.WeeklyTotals.Micronutrients != nil {
		micro := *w.WeeklyTotals.Micronutrients
		out.WeeklyTotals.Micronutrients = &micro
	}
	for k, v := range w.CarryoverNeeds {
		out.CarryoverNeeds[k] = v
	}
	return out
}

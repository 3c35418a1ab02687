package planner

import (
	"math"

	"meal-plan-engine/internal/models"
)

// Component weights, normalized from the integer tuple (40, 30, 15, 15, 10).
const (
	weightNutrition     = 40.0 / 110.0
	weightMicronutrient = 30.0 / 110.0
	weightSatiety       = 15.0 / 110.0
	weightBalance       = 15.0 / 110.0
	weightSchedule      = 10.0 / 110.0
)

// busyness4ReferenceMinutes is the cooking-time anchor used to score
// unbounded slots.
const busyness4ReferenceMinutes = 30

func clampScore(x float64) float64 {
	return math.Max(0, math.Min(100, x))
}

// macroSubscore scores calories/protein/carbs closeness to target:
// 100*(1 - deviation/0.10), clamped to [0, 100]. A non-positive target scores
// a full 100.
func macroSubscore(actual, target float64) float64 {
	if target <= 0 {
		return 100
	}
	deviation := math.Abs(actual-target) / target
	return clampScore(100 * (1 - deviation/DailyToleranceFraction))
}

// fatSubscore scores fat toward the midpoint of the per-meal [min, max] range.
func fatSubscore(actual, fatMin, fatMax float64) float64 {
	if fatMax <= fatMin {
		return 100
	}
	midpoint := (fatMin + fatMax) / 2
	halfRange := (fatMax - fatMin) / 2
	deviation := math.Abs(actual-midpoint) / halfRange
	return clampScore(100 * (1 - math.Min(deviation, 1)))
}

// nutritionMatch is the mean of the four macro sub-scores against the
// per-meal target.
func nutritionMatch(view RecipeView, target PerMealTarget) float64 {
	calScore := macroSubscore(view.Nutrition.Calories, target.Calories)
	proScore := macroSubscore(view.Nutrition.ProteinG, target.ProteinG)
	fatScore := fatSubscore(view.Nutrition.FatG, target.FatMin, target.FatMax)
	carbScore := macroSubscore(view.Nutrition.CarbsG, target.CarbsG)
	return (calScore + proScore + fatScore + carbScore) / 4
}

// micronutrientMatch weighs how much of each currently-deficient nutrient's
// gap the recipe fills, weighted by gap plus carryover. Neutral 50 when no
// nutrients are tracked or nothing is deficient.
func micronutrientMatch(view RecipeView, dayIndex int, state *searchState, profile *models.PlanningUserProfile) float64 {
	tracked := profile.MicronutrientTargets
	if len(tracked) == 0 {
		return 50
	}
	daysLeft := state.weekly.DaysRemaining
	if daysLeft <= 0 {
		daysLeft = 1
	}
	var consumed map[string]float64
	if t := state.tracker(dayIndex); t != nil {
		consumed = t.MicronutrientsConsumed
	}
	recipeMicro := view.micronutrients()

	totalContribution := 0.0
	totalWeight := 0.0
	for _, name := range sortedTargetNames(tracked) {
		baseTarget := tracked[name]
		if baseTarget <= 0 {
			continue
		}
		carryover := state.weekly.CarryoverNeeds[name]
		adjusted := AdjustedDailyTarget(baseTarget, carryover, daysLeft)
		gap := adjusted - consumed[name]
		if gap <= 0 {
			continue
		}
		amount := recipeMicro[name]
		if amount <= 0 {
			continue
		}
		fillRatio := math.Min(1, amount/gap)
		weight := gap + carryover
		totalContribution += weight * fillRatio
		totalWeight += weight
	}

	if totalWeight <= 0 {
		return 50
	}
	return clampScore(100 * totalContribution / totalWeight)
}

// satietyMatch scores the recipe against the slot's satiety requirement:
// fiber/protein/calories for high satiety, a protein-balance curve otherwise.
func satietyMatch(view RecipeView, satiety string) float64 {
	if satiety == SatietyHigh {
		fiber := view.Nutrition.Micronutrients.Nutrient("fiber_g")
		sFiber := math.Min(100, fiber*6)
		sPro := math.Min(100, view.Nutrition.ProteinG*2.5)
		sCal := math.Min(100, view.Nutrition.Calories/6)
		return clampScore((sFiber + sPro + sCal) / 3)
	}
	return clampScore(70 - math.Abs(view.Nutrition.ProteinG-25)*0.5)
}

// balanceScore averages a trajectory score (macro closeness to the
// per-remaining-slot average need) and a diversity score (tracked nutrients
// the recipe adds in non-trivial amounts). Neutral 50 before the day's first
// assignment.
func balanceScore(view RecipeView, dayIndex int, state *searchState, profile *models.PlanningUserProfile) float64 {
	tracker := state.tracker(dayIndex)
	if tracker == nil {
		return 50
	}
	slotsLeft := tracker.SlotsTotal - tracker.SlotsAssigned
	if slotsLeft < 1 {
		slotsLeft = 1
	}
	div := float64(slotsLeft)
	needCal := (float64(profile.DailyCalories) - tracker.CaloriesConsumed) / div
	needPro := (profile.DailyProteinG - tracker.ProteinConsumed) / div
	needFat := (profile.DailyFatG.Midpoint() - tracker.FatConsumed) / div
	needCarb := (profile.DailyCarbsG - tracker.CarbsConsumed) / div

	tCal, tPro, tFat, tCarb := 50.0, 50.0, 50.0, 50.0
	if needCal > 0 {
		tCal = macroSubscore(view.Nutrition.Calories, needCal)
	}
	if needPro != 0 {
		tPro = macroSubscore(view.Nutrition.ProteinG, needPro)
	}
	if needFat != 0 {
		tFat = macroSubscore(view.Nutrition.FatG, needFat)
	}
	if needCarb > 0 {
		tCarb = macroSubscore(view.Nutrition.CarbsG, needCarb)
	}
	trajectory := (tCal + tPro + tFat + tCarb) / 4

	diversity := 50.0
	if view.Nutrition.Micronutrients != nil {
		novel := 0
		for name, amount := range view.micronutrients() {
			if amount > 0 && tracker.MicronutrientsConsumed[name] < 1 {
				novel++
			}
		}
		diversity = math.Min(100, float64(novel)*10)
	}

	return clampScore((trajectory + diversity) / 2)
}

// scheduleMatch rewards shorter cooking times within the slot bound, and
// proximity to 30 minutes on unbounded slots.
func scheduleMatch(view RecipeView, slot models.MealSlot) float64 {
	ct := view.CookingTimeMinutes
	maxCT, bounded := CookingTimeMax(slot.BusynessLevel)
	if bounded {
		if ct > maxCT {
			return 0
		}
		if maxCT < 1 {
			maxCT = 1
		}
		return clampScore(100 * (1 - float64(ct)/float64(maxCT)))
	}
	dist := math.Abs(float64(ct - busyness4ReferenceMinutes))
	return clampScore(100 - dist*2)
}

// compositeScore combines the five weighted components into a score in
// [0, 100]. Pure and deterministic for identical inputs.
func compositeScore(view RecipeView, dayIndex, slotIndex int, state *searchState, profile *models.PlanningUserProfile) float64 {
	if dayIndex < 0 || dayIndex >= len(state.schedule) {
		return 50
	}
	daySlots := state.schedule[dayIndex]
	if slotIndex < 0 || slotIndex >= len(daySlots) {
		return 50
	}
	sc := contextFor(state.schedule, dayIndex, slotIndex, profile.ActivitySchedule)

	tracker := state.tracker(dayIndex)
	if tracker == nil {
		tracker = models.NewDailyTracker(len(daySlots))
	}
	target := perMealTarget(tracker, profile, sc.activity, sc.satiety)

	composite := weightNutrition*nutritionMatch(view, target) +
		weightMicronutrient*micronutrientMatch(view, dayIndex, state, profile) +
		weightSatiety*satietyMatch(view, sc.satiety) +
		weightBalance*balanceScore(view, dayIndex, state, profile) +
		weightSchedule*scheduleMatch(view, sc.slot)
	return clampScore(composite)
}

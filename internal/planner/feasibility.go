package planner

import (
	"math"
	"sort"

	"meal-plan-engine/internal/models"
)

// DailyToleranceFraction is the ±10% daily tolerance for calories, protein
// and carbs. Fat is a hard range instead.
const DailyToleranceFraction = 0.10

// macroBounds holds, for each remaining slot count k in 1..MaxSlotsPerDay,
// the minimum and maximum achievable sum of each macro over k distinct
// recipes. When the pool holds fewer than k recipes both bounds collapse to
// the full-pool sum.
type macroBounds struct {
	caloriesMin, caloriesMax map[int]float64
	proteinMin, proteinMax   map[int]float64
	fatMin, fatMax           map[int]float64
	carbsMin, carbsMax       map[int]float64
}

// sortedValuesByRecipe collects one value per distinct recipe ID, ascending.
func sortedValuesByRecipe(pool []models.PlanningRecipe, get func(models.NutritionProfile) float64) []float64 {
	seen := make(map[string]bool, len(pool))
	values := make([]float64, 0, len(pool))
	for i := range pool {
		if seen[pool[i].ID] {
			continue
		}
		seen[pool[i].ID] = true
		values = append(values, get(pool[i].Nutrition))
	}
	sort.Float64s(values)
	return values
}

func minMaxSums(values []float64, maxSlots int) (map[int]float64, map[int]float64) {
	total := 0.0
	for _, v := range values {
		total += v
	}
	minSums := make(map[int]float64, maxSlots)
	maxSums := make(map[int]float64, maxSlots)
	for m := 1; m <= maxSlots; m++ {
		if m > len(values) {
			minSums[m] = total
			maxSums[m] = total
			continue
		}
		lo, hi := 0.0, 0.0
		for i := 0; i < m; i++ {
			lo += values[i]
			hi += values[len(values)-1-i]
		}
		minSums[m] = lo
		maxSums[m] = hi
	}
	return minSums, maxSums
}

// precomputeMacroBounds builds the macro min/max tables once per search.
func precomputeMacroBounds(pool []models.PlanningRecipe, maxSlots int) *macroBounds {
	b := &macroBounds{}
	b.caloriesMin, b.caloriesMax = minMaxSums(sortedValuesByRecipe(pool, func(n models.NutritionProfile) float64 { return n.Calories }), maxSlots)
	b.proteinMin, b.proteinMax = minMaxSums(sortedValuesByRecipe(pool, func(n models.NutritionProfile) float64 { return n.ProteinG }), maxSlots)
	b.fatMin, b.fatMax = minMaxSums(sortedValuesByRecipe(pool, func(n models.NutritionProfile) float64 { return n.FatG }), maxSlots)
	b.carbsMin, b.carbsMax = minMaxSums(sortedValuesByRecipe(pool, func(n models.NutritionProfile) float64 { return n.CarbsG }), maxSlots)
	return b
}

// precomputeMaxDailyAchievable builds, per tracked nutrient and slot count,
// the sum of the M largest distinct per-recipe amounts.
func precomputeMaxDailyAchievable(pool []models.PlanningRecipe, nutrientNames []string, slotCounts map[int]bool) map[string]map[int]float64 {
	out := make(map[string]map[int]float64, len(nutrientNames))
	for _, name := range nutrientNames {
		if !models.IsNutrientName(name) {
			continue
		}
		seen := make(map[string]bool, len(pool))
		values := make([]float64, 0, len(pool))
		for i := range pool {
			if seen[pool[i].ID] {
				continue
			}
			seen[pool[i].ID] = true
			values = append(values, pool[i].Nutrition.Micronutrients.Nutrient(name))
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(values)))
		byCount := make(map[int]float64, len(slotCounts))
		for m := range slotCounts {
			if m <= 0 {
				byCount[m] = 0
				continue
			}
			sum := 0.0
			for i := 0; i < m && i < len(values); i++ {
				sum += values[i]
			}
			byCount[m] = sum
		}
		out[name] = byCount
	}
	return out
}

// slotsRemainingAfterAssigning returns the slots still unassigned on the day
// once the current slot is tentatively filled.
func slotsRemainingAfterAssigning(state *searchState, dayIndex, slotIndex int) int {
	tracker := state.tracker(dayIndex)
	if tracker == nil {
		if dayIndex >= len(state.schedule) {
			return 0
		}
		k := len(state.schedule[dayIndex]) - 1 - slotIndex
		if k < 0 {
			return 0
		}
		return k
	}
	k := tracker.SlotsTotal - tracker.SlotsAssigned - 1
	if k < 0 {
		return 0
	}
	return k
}

// intervalTest checks whether the ±tolerance window around the remaining
// budget intersects the achievable [min, max] for the remaining slots.
func intervalTest(remaining, tolerance, minAchievable, maxAchievable float64) bool {
	low := remaining - tolerance
	high := remaining + tolerance
	return minAchievable <= high && maxAchievable >= low
}

// fc1DailyCalories rejects a placement that exceeds the calorie ceiling or
// from which the remaining slots cannot land the day within ±10% of target.
func fc1DailyCalories(view RecipeView, dayIndex, slotIndex int, state *searchState, profile *models.PlanningUserProfile, bounds *macroBounds) bool {
	dailyCal := float64(profile.DailyCalories)
	var current float64
	if t := state.tracker(dayIndex); t != nil {
		current = t.CaloriesConsumed
	}
	used := current + view.Nutrition.Calories
	remaining := dailyCal - used

	if profile.MaxDailyCalories != nil && used > float64(*profile.MaxDailyCalories) {
		return false
	}

	k := slotsRemainingAfterAssigning(state, dayIndex, slotIndex)
	if k == 0 {
		return math.Abs(remaining) <= DailyToleranceFraction*dailyCal
	}
	return intervalTest(remaining, DailyToleranceFraction*dailyCal, bounds.caloriesMin[k], bounds.caloriesMax[k])
}

// fc2DailyMacros applies the ±10% interval test to protein and carbs, and the
// hard-range test to fat, for the remaining slots of the day.
func fc2DailyMacros(view RecipeView, dayIndex, slotIndex int, state *searchState, profile *models.PlanningUserProfile, bounds *macroBounds) bool {
	tracker := state.tracker(dayIndex)
	k := slotsRemainingAfterAssigning(state, dayIndex, slotIndex)

	current := func(get func(*models.DailyTracker) float64) float64 {
		if tracker == nil {
			return 0
		}
		return get(tracker)
	}

	// Protein ±10%
	usedPro := current(func(t *models.DailyTracker) float64 { return t.ProteinConsumed }) + view.Nutrition.ProteinG
	remPro := profile.DailyProteinG - usedPro
	if k > 0 {
		if !intervalTest(remPro, DailyToleranceFraction*profile.DailyProteinG, bounds.proteinMin[k], bounds.proteinMax[k]) {
			return false
		}
	} else if math.Abs(remPro) > DailyToleranceFraction*profile.DailyProteinG {
		return false
	}

	// Carbs ±10%
	usedCarbs := current(func(t *models.DailyTracker) float64 { return t.CarbsConsumed }) + view.Nutrition.CarbsG
	remCarbs := profile.DailyCarbsG - usedCarbs
	if k > 0 {
		if !intervalTest(remCarbs, DailyToleranceFraction*profile.DailyCarbsG, bounds.carbsMin[k], bounds.carbsMax[k]) {
			return false
		}
	} else if math.Abs(remCarbs) > DailyToleranceFraction*profile.DailyCarbsG {
		return false
	}

	// Fat within [min, max]
	usedFat := current(func(t *models.DailyTracker) float64 { return t.FatConsumed }) + view.Nutrition.FatG
	if k > 0 {
		remFatMin := profile.DailyFatG.Min - usedFat
		remFatMax := profile.DailyFatG.Max - usedFat
		if bounds.fatMin[k] > remFatMax || bounds.fatMax[k] < remFatMin {
			return false
		}
	} else if usedFat < profile.DailyFatG.Min || usedFat > profile.DailyFatG.Max {
		return false
	}

	return true
}

// fc3IncrementalUL mirrors HC-4 framed as feasibility: adding the recipe must
// keep every limited nutrient at or under its UL.
func fc3IncrementalUL(view RecipeView, dayIndex int, state *searchState, resolvedUL *models.UpperLimits) bool {
	return hc4DailyUL(view, state.tracker(dayIndex), resolvedUL)
}

// fc4CrossDayRDI runs at the start of day d > 0: for each tracked nutrient
// with a positive RDI, the outstanding weekly deficit must still be reachable
// given the remaining days' best achievable intake.
func fc4CrossDayRDI(dayIndex int, state *searchState, profile *models.PlanningUserProfile, days int, maxDailyAchievable map[string]map[int]float64) bool {
	if dayIndex <= 0 {
		return true
	}
	daysLeft := state.weekly.DaysRemaining
	if daysLeft <= 0 {
		return true
	}
	if len(profile.MicronutrientTargets) == 0 || dayIndex >= len(state.schedule) {
		return true
	}
	slotCount := len(state.schedule[dayIndex])
	cumulative := state.weekly.WeeklyTotals.Micronutrients.ToMap()

	for _, name := range sortedTargetNames(profile.MicronutrientTargets) {
		dailyRDI := profile.MicronutrientTargets[name]
		if dailyRDI <= 0 {
			continue
		}
		deficit := dailyRDI*float64(days) - cumulative[name]
		if deficit <= 0 {
			continue
		}
		if deficit > float64(daysLeft)*maxDailyAchievable[name][slotCount] {
			return false
		}
	}
	return true
}

// sortedTargetNames returns the tracked nutrient names in sorted order so map
// iteration never influences results.
func sortedTargetNames(targets map[string]float64) []string {
	names := make([]string, 0, len(targets))
	for n := range targets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// fc1fc2fc3 runs the per-candidate feasibility checks.
func fc1fc2fc3(view RecipeView, dayIndex, slotIndex int, state *searchState, profile *models.PlanningUserProfile, resolvedUL *models.UpperLimits, bounds *macroBounds) bool {
	if !fc1DailyCalories(view, dayIndex, slotIndex, state, profile, bounds) {
		return false
	}
	if !fc2DailyMacros(view, dayIndex, slotIndex, state, profile, bounds) {
		return false
	}
	return fc3IncrementalUL(view, dayIndex, state, resolvedUL)
}

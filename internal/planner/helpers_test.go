package planner

import (
	"fmt"
	"testing"

	"meal-plan-engine/internal/models"
)

// uniformSchedule builds days x slotsPerDay slots at fixed times.
func uniformSchedule(days, slotsPerDay int) [][]models.MealSlot {
	times := []string{"08:00", "13:00", "16:00", "19:00", "21:00", "22:00", "23:00", "23:30"}
	schedule := make([][]models.MealSlot, days)
	for d := range schedule {
		slots := make([]models.MealSlot, slotsPerDay)
		for s := range slots {
			slots[s] = models.MealSlot{Time: times[s], BusynessLevel: 2, MealType: "meal"}
		}
		schedule[d] = slots
	}
	return schedule
}

// uniformProfile targets 2000 kcal / 100g protein / fat 50-80 / 250g carbs,
// which two uniform recipes per day satisfy exactly.
func uniformProfile(days, slotsPerDay int) *models.PlanningUserProfile {
	return &models.PlanningUserProfile{
		DailyCalories: 2000,
		DailyProteinG: 100,
		DailyFatG:     models.FatRange{Min: 50, Max: 80},
		DailyCarbsG:   250,
		Schedule:      uniformSchedule(days, slotsPerDay),
	}
}

// uniformRecipe matches half the uniform daily target.
func uniformRecipe(id string) models.PlanningRecipe {
	return models.PlanningRecipe{
		ID:                 id,
		Name:               id,
		CookingTimeMinutes: 10,
		Nutrition: models.NutritionProfile{
			Calories:       1000,
			ProteinG:       50,
			FatG:           32,
			CarbsG:         125,
			Micronutrients: &models.MicronutrientProfile{},
		},
	}
}

// uniformPool builds n uniform recipes r00..r<n-1>.
func uniformPool(n int) []models.PlanningRecipe {
	pool := make([]models.PlanningRecipe, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, uniformRecipe(fmt.Sprintf("r%02d", i)))
	}
	return pool
}

func poolByID(pool []models.PlanningRecipe) map[string]*models.PlanningRecipe {
	out := make(map[string]*models.PlanningRecipe, len(pool))
	for i := range pool {
		out[pool[i].ID] = &pool[i]
	}
	return out
}

func emptyState(profile *models.PlanningUserProfile, days int) *searchState {
	return &searchState{
		dailyTrackers: make(map[int]*models.DailyTracker),
		weekly:        models.NewWeeklyTracker(days, profile.MicronutrientTargets),
		schedule:      profile.Schedule,
	}
}

// sameMicros compares micronutrient maps treating missing keys as zero.
func sameMicros(t *testing.T, label string, a, b map[string]float64) {
	t.Helper()
	keys := make(map[string]bool)
	for k := range a {
		keys[k] = true
	}
	for k := range b {
		keys[k] = true
	}
	for k := range keys {
		if a[k] != b[k] {
			t.Errorf("%s: nutrient %s differs: %v vs %v", label, k, a[k], b[k])
		}
	}
}

// Command benchmark measures run time of the meal plan search on a synthetic
// uniform pool. Pacing is controlled with MEALPLAN_D_DAYS and
// MEALPLAN_SLOTS_PER_DAY; neither affects search results.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"meal-plan-engine/internal/models"
	"meal-plan-engine/internal/planner"
)

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func makeSchedule(days, slotsPerDay int) [][]models.MealSlot {
	schedule := make([][]models.MealSlot, days)
	for d := range schedule {
		slots := make([]models.MealSlot, slotsPerDay)
		for s := range slots {
			slots[s] = models.MealSlot{Time: "12:00", BusynessLevel: 2, MealType: "lunch"}
		}
		schedule[d] = slots
	}
	return schedule
}

func makeRecipe(id string) models.PlanningRecipe {
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

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}

	days := envInt("MEALPLAN_D_DAYS", 7)
	slotsPerDay := envInt("MEALPLAN_SLOTS_PER_DAY", 2)

	profile := &models.PlanningUserProfile{
		DailyCalories: 2000,
		DailyProteinG: 100,
		DailyFatG:     models.FatRange{Min: 50, Max: 80},
		DailyCarbsG:   250,
		Schedule:      makeSchedule(days, slotsPerDay),
	}
	pool := make([]models.PlanningRecipe, 0, days*slotsPerDay)
	for i := 0; i < days*slotsPerDay; i++ {
		pool = append(pool, makeRecipe(fmt.Sprintf("r%d", i)))
	}

	start := time.Now()
	result, err := planner.Run(profile, pool, days, nil, planner.Options{CollectStats: true})
	elapsed := time.Since(start)
	if err != nil {
		log.Fatalf("search rejected: %v", err)
	}

	fmt.Println("--- Meal plan search benchmark ---")
	fmt.Printf("Success: %v\n", result.Success)
	fmt.Printf("Wall time: %.3fs\n", elapsed.Seconds())
	if result.Stats != nil {
		fmt.Printf("Attempts: %d\n", result.Stats.Attempts)
		fmt.Printf("Backtracks: %d\n", result.Stats.Backtracks)
		if result.Stats.Attempts > 0 {
			fmt.Printf("Time per attempt: %.6fs\n", elapsed.Seconds()/float64(result.Stats.Attempts))
		}
	}
	if result.Success {
		fmt.Printf("Assignments: %d\n", len(result.Plan))
		if result.WeeklyTracker != nil {
			fmt.Printf("Days completed: %d\n", result.WeeklyTracker.DaysCompleted)
		}
		for d := 0; d < days; d++ {
			if dt, ok := result.DailyTrackers[d]; ok {
				fmt.Printf("  Day %d: slots=%d, cal=%.0f, protein=%.1fg\n",
					d+1, dt.SlotsAssigned, dt.CaloriesConsumed, dt.ProteinConsumed)
			}
		}
	} else {
		fmt.Printf("Termination: %s, failure mode: %s\n", result.TerminationCode, result.FailureMode)
	}
	fmt.Println("----------------------------------")
}

package planner

import (
	"testing"

	"meal-plan-engine/internal/models"
)

func TestGenerateCandidates_FilterPipeline(t *testing.T) {
	profile := uniformProfile(1, 2)
	profile.ExcludedIngredients = []string{"peanut"}

	pool := uniformPool(2)
	peanut := uniformRecipe("r_peanut")
	peanut.Ingredients = []models.Ingredient{{Name: "peanut"}}
	slow := uniformRecipe("r_slow")
	slow.CookingTimeMinutes = 45
	pool = append(pool, peanut, slow)

	bounds := precomputeMacroBounds(pool, models.MaxSlotsPerDay)
	state := emptyState(profile, 1)

	result, err := generateCandidates(pool, 0, 0, state, profile, nil, bounds, nil)
	if err != nil {
		t.Fatalf("generateCandidates: %v", err)
	}
	if result.triggerBacktrack {
		t.Fatal("unexpected backtrack trigger")
	}
	if len(result.candidates) != 2 {
		t.Fatalf("candidates = %d, want 2 (peanut and slow filtered)", len(result.candidates))
	}
	for _, c := range result.candidates {
		if c.ID == "r_peanut" || c.ID == "r_slow" {
			t.Errorf("filtered recipe %s survived", c.ID)
		}
	}
	// Candidates are sorted by id.
	if result.candidates[0].ID != "r00" || result.candidates[1].ID != "r01" {
		t.Errorf("candidates not in id order: %s, %s", result.candidates[0].ID, result.candidates[1].ID)
	}
}

func TestGenerateCandidates_CalorieExcessRecorded(t *testing.T) {
	ceiling := 1500
	profile := uniformProfile(1, 2)
	profile.MaxDailyCalories = &ceiling

	pool := uniformPool(2)
	big := uniformRecipe("r_big")
	big.Nutrition.Calories = 1600
	pool = append(pool, big)

	bounds := precomputeMacroBounds(pool, models.MaxSlotsPerDay)
	state := emptyState(profile, 1)

	result, err := generateCandidates(pool, 0, 0, state, profile, nil, bounds, nil)
	if err != nil {
		t.Fatalf("generateCandidates: %v", err)
	}
	if !result.calorieExcess["r_big"] {
		t.Error("HC-5 rejection not recorded as calorie excess")
	}
	for _, c := range result.candidates {
		if c.ID == "r_big" {
			t.Error("calorie-excess recipe survived filtering")
		}
	}
}

func TestGenerateCandidates_EmptySetTriggersBacktrack(t *testing.T) {
	profile := uniformProfile(1, 2)
	profile.ExcludedIngredients = []string{"everything"}

	pool := uniformPool(1)
	pool[0].Ingredients = []models.Ingredient{{Name: "everything"}}
	bounds := precomputeMacroBounds(pool, models.MaxSlotsPerDay)
	state := emptyState(profile, 1)

	result, err := generateCandidates(pool, 0, 0, state, profile, nil, bounds, nil)
	if err != nil {
		t.Fatalf("generateCandidates: %v", err)
	}
	if !result.triggerBacktrack {
		t.Error("empty candidate set should trigger backtrack")
	}
}

func TestGenerateCandidates_FC5FutureSlot(t *testing.T) {
	// One recipe and two slots: the future slot's HC-only eligible set is
	// still non-empty before the tentative placement (FC-5 is optimistic),
	// so no trigger fires here; the dead end surfaces at the next slot.
	profile := uniformProfile(1, 2)
	pool := uniformPool(1)
	bounds := precomputeMacroBounds(pool, models.MaxSlotsPerDay)
	state := emptyState(profile, 1)

	result, err := generateCandidates(pool, 0, 0, state, profile, nil, bounds, nil)
	if err != nil {
		t.Fatalf("generateCandidates: %v", err)
	}
	if result.triggerBacktrack {
		t.Fatal("optimistic FC-5 should not trigger before assignment")
	}

	// After assigning the only recipe to slot 0, slot 1 has no candidates.
	tracker := models.NewDailyTracker(2)
	applyToTracker(tracker, viewOf(&pool[0]), false)
	state.dailyTrackers[0] = tracker

	result, err = generateCandidates(pool, 0, 1, state, profile, nil, bounds, nil)
	if err != nil {
		t.Fatalf("generateCandidates: %v", err)
	}
	if !result.triggerBacktrack {
		t.Error("exhausted pool at the last slot should trigger backtrack")
	}
}

func TestGenerateCandidates_FC5DetectsDeadFutureSlot(t *testing.T) {
	// Slot 1 is busyness 1 (5 minute bound) and every recipe cooks longer:
	// FC-5 must report the dead future slot at slot 0 already.
	profile := uniformProfile(1, 2)
	profile.Schedule[0][1].BusynessLevel = 1
	pool := uniformPool(3)
	bounds := precomputeMacroBounds(pool, models.MaxSlotsPerDay)
	state := emptyState(profile, 1)

	result, err := generateCandidates(pool, 0, 0, state, profile, nil, bounds, nil)
	if err != nil {
		t.Fatalf("generateCandidates: %v", err)
	}
	if !result.triggerBacktrack {
		t.Error("future slot with zero HC-eligible recipes should trigger backtrack now")
	}
}

func TestGenerateCandidates_HC8AppliedOnLaterDays(t *testing.T) {
	profile := uniformProfile(2, 2)
	pool := uniformPool(3)
	bounds := precomputeMacroBounds(pool, models.MaxSlotsPerDay)
	state := emptyState(profile, 2)

	prev := models.NewDailyTracker(2)
	prev.NonWorkoutRecipeIDs["r00"] = true
	prev.UsedRecipeIDs["r00"] = true
	prev.SlotsAssigned = 1
	state.dailyTrackers[0] = prev

	result, err := generateCandidates(pool, 1, 0, state, profile, nil, bounds, nil)
	if err != nil {
		t.Fatalf("generateCandidates: %v", err)
	}
	for _, c := range result.candidates {
		if c.ID == "r00" {
			t.Error("previous day's non-workout recipe survived HC-8")
		}
	}
}

package planner

import (
	"errors"
	"math"
	"testing"

	"meal-plan-engine/internal/models"
)

func testCarbSources() *ScalableCarbSources {
	return &ScalableCarbSources{
		RiceVariants:   []string{"white rice", "jasmine rice"},
		PotatoVariants: []string{"potato", "sweet potato"},
	}
}

func scalableRecipe(id string, calories float64) models.PlanningRecipe {
	r := uniformRecipe(id)
	r.Nutrition.Calories = calories
	r.PrimaryCarbSource = "White Rice "
	r.PrimaryCarbContribution = &models.NutritionProfile{
		Calories: 400,
		CarbsG:   100,
	}
	return r
}

func scalingProfile() *models.PlanningUserProfile {
	p := uniformProfile(1, 2)
	p.EnablePrimaryCarbDownscaling = true
	p.MaxScalingSteps = 4
	p.ScalingStepFraction = 0.10
	return p
}

func TestNewCarbScaler(t *testing.T) {
	if newCarbScaler(uniformProfile(1, 2), testCarbSources()) != nil {
		t.Error("scaler created with feature disabled")
	}
	if newCarbScaler(scalingProfile(), nil) != nil {
		t.Error("scaler created without reference data")
	}

	p := scalingProfile()
	p.MaxScalingSteps = 10
	p.ScalingStepFraction = 0.5
	scaler := newCarbScaler(p, testCarbSources())
	if scaler == nil {
		t.Fatal("scaler not created")
	}
	if float64(scaler.steps)*scaler.sigma >= 1 {
		t.Errorf("effective sigma not capped: steps=%d sigma=%v", scaler.steps, scaler.sigma)
	}
}

func TestCarbScaler_IsScalable(t *testing.T) {
	scaler := newCarbScaler(scalingProfile(), testCarbSources())

	scalable := scalableRecipe("r1", 1000)
	if !scaler.isScalable(&scalable) {
		t.Error("rice recipe not scalable")
	}

	plain := uniformRecipe("r2")
	if scaler.isScalable(&plain) {
		t.Error("recipe without contribution scalable")
	}

	unknown := scalableRecipe("r3", 1000)
	unknown.PrimaryCarbSource = "quinoa"
	if scaler.isScalable(&unknown) {
		t.Error("non-reference carb source scalable")
	}
}

func TestCarbScaler_VariantNutrition(t *testing.T) {
	scaler := newCarbScaler(scalingProfile(), testCarbSources())
	recipe := scalableRecipe("r1", 1000)

	// Step 1: contribution scaled by 0.9 -> 40 kcal and 10 g carbs removed.
	variant, err := scaler.variantNutrition(&recipe, 1)
	if err != nil {
		t.Fatalf("variantNutrition: %v", err)
	}
	if math.Abs(variant.Calories-960) > 1e-9 {
		t.Errorf("step 1 calories = %v, want 960", variant.Calories)
	}
	if math.Abs(variant.CarbsG-115) > 1e-9 {
		t.Errorf("step 1 carbs = %v, want 115", variant.CarbsG)
	}
	// Protein and fat untouched by a pure-carb contribution.
	if variant.ProteinG != recipe.Nutrition.ProteinG || variant.FatG != recipe.Nutrition.FatG {
		t.Errorf("step 1 changed protein/fat: %+v", variant)
	}

	// Step 4: scale factor 0.6 -> 160 kcal removed.
	variant, err = scaler.variantNutrition(&recipe, 4)
	if err != nil {
		t.Fatalf("variantNutrition step 4: %v", err)
	}
	if math.Abs(variant.Calories-840) > 1e-9 {
		t.Errorf("step 4 calories = %v, want 840", variant.Calories)
	}
}

func TestCarbScaler_NegativeNutrientIsDataError(t *testing.T) {
	scaler := newCarbScaler(scalingProfile(), testCarbSources())

	bad := uniformRecipe("r_bad")
	bad.PrimaryCarbSource = "potato"
	bad.PrimaryCarbContribution = &models.NutritionProfile{
		Calories: 400,
		CarbsG:   200, // recipe only has 125 g carbs
	}

	_, err := scaler.variantNutrition(&bad, 1)
	if err == nil {
		t.Fatal("negative variant nutrition accepted")
	}
	if !errors.Is(err, ErrInvalidCarbContribution) {
		t.Errorf("error %v does not wrap ErrInvalidCarbContribution", err)
	}
}

func TestGenerateCandidates_AppendsScaledVariants(t *testing.T) {
	ceiling := 2000
	profile := scalingProfile()
	profile.MaxDailyCalories = &ceiling

	// Day already holds 1100 kcal; the 1000 kcal scalable recipe busts the
	// ceiling at the base size but fits once downscaled by three steps or more.
	pool := uniformPool(1)
	rice := scalableRecipe("r_rice", 1000)
	pool = append(pool, rice)

	bounds := precomputeMacroBounds(pool, models.MaxSlotsPerDay)
	state := emptyState(profile, 1)
	tracker := models.NewDailyTracker(2)
	tracker.CaloriesConsumed = 1100
	tracker.ProteinConsumed = 50
	tracker.FatConsumed = 32
	tracker.CarbsConsumed = 135
	tracker.UsedRecipeIDs["r00"] = true
	tracker.SlotsAssigned = 1
	state.dailyTrackers[0] = tracker

	scaler := newCarbScaler(profile, testCarbSources())
	result, err := generateCandidates(pool, 0, 1, state, profile, nil, bounds, scaler)
	if err != nil {
		t.Fatalf("generateCandidates: %v", err)
	}

	if !result.calorieExcess["r_rice"] {
		t.Fatal("base rice recipe should be a calorie-excess rejection")
	}
	var variants []RecipeView
	for _, c := range result.candidates {
		if c.ID == "r_rice" {
			if c.VariantIndex == 0 {
				t.Error("base recipe over the ceiling appeared as candidate")
			}
			variants = append(variants, c)
		}
	}
	if len(variants) == 0 {
		t.Fatal("no scaled variants appended")
	}
	for _, v := range variants {
		if 1100+v.Nutrition.Calories > float64(ceiling) {
			t.Errorf("variant step %d still over ceiling: %v kcal", v.VariantIndex, v.Nutrition.Calories)
		}
	}
}

func TestGenerateCandidates_NoVariantsForPinnedSlot(t *testing.T) {
	ceiling := 2000
	profile := scalingProfile()
	profile.MaxDailyCalories = &ceiling
	profile.PinnedAssignments = []models.PinnedAssignment{{Day: 1, SlotIndex: 1, RecipeID: "r00"}}

	pool := uniformPool(1)
	pool = append(pool, scalableRecipe("r_rice", 1000))

	bounds := precomputeMacroBounds(pool, models.MaxSlotsPerDay)
	state := emptyState(profile, 1)
	tracker := models.NewDailyTracker(2)
	tracker.CaloriesConsumed = 1100
	tracker.UsedRecipeIDs["r01"] = true
	tracker.SlotsAssigned = 1
	state.dailyTrackers[0] = tracker

	scaler := newCarbScaler(profile, testCarbSources())
	result, err := generateCandidates(pool, 0, 1, state, profile, nil, bounds, scaler)
	if err != nil {
		t.Fatalf("generateCandidates: %v", err)
	}
	for _, c := range result.candidates {
		if c.VariantIndex > 0 {
			t.Error("scaled variant generated for a pinned slot")
		}
	}
}

package planner

import (
	"testing"

	"meal-plan-engine/internal/models"
)

func TestOrderScoredCandidates_ScoreDescending(t *testing.T) {
	profile := uniformProfile(1, 2)
	state := emptyState(profile, 1)

	candidates := []scoredCandidate{
		{view: RecipeView{ID: "low"}, score: 40},
		{view: RecipeView{ID: "high"}, score: 90},
		{view: RecipeView{ID: "mid"}, score: 70},
	}
	ordered := orderScoredCandidates(candidates, state, profile, 0)

	want := []string{"high", "mid", "low"}
	for i, id := range want {
		if ordered[i].view.ID != id {
			t.Fatalf("position %d = %s, want %s", i, ordered[i].view.ID, id)
		}
	}
}

func TestOrderScoredCandidates_GapFillBreaksTies(t *testing.T) {
	profile := uniformProfile(1, 2)
	profile.MicronutrientTargets = map[string]float64{"iron_mg": 10, "zinc_mg": 8}
	state := emptyState(profile, 1)

	plain := uniformRecipe("a_plain")
	filler := uniformRecipe("z_filler")
	filler.Nutrition.Micronutrients = &models.MicronutrientProfile{IronMg: 5, ZincMg: 4}

	candidates := []scoredCandidate{
		{view: viewOf(&plain), score: 80},
		{view: viewOf(&filler), score: 80},
	}
	ordered := orderScoredCandidates(candidates, state, profile, 0)

	if ordered[0].view.ID != "z_filler" {
		t.Errorf("gap-filling recipe should win the tie despite later id, got %s first", ordered[0].view.ID)
	}
}

func TestOrderScoredCandidates_LikedFoodsBreaksTies(t *testing.T) {
	profile := uniformProfile(1, 2)
	profile.LikedFoods = []string{"salmon"}
	state := emptyState(profile, 1)

	plain := uniformRecipe("a_plain")
	liked := uniformRecipe("z_liked")
	liked.Ingredients = []models.Ingredient{{Name: " Salmon "}}

	candidates := []scoredCandidate{
		{view: viewOf(&plain), score: 80},
		{view: viewOf(&liked), score: 80},
	}
	ordered := orderScoredCandidates(candidates, state, profile, 0)

	if ordered[0].view.ID != "z_liked" {
		t.Errorf("liked-food recipe should win the tie, got %s first", ordered[0].view.ID)
	}
}

func TestOrderScoredCandidates_IDIsFinalTieBreak(t *testing.T) {
	profile := uniformProfile(1, 2)
	state := emptyState(profile, 1)

	candidates := []scoredCandidate{
		{view: RecipeView{ID: "r_b"}, score: 80},
		{view: RecipeView{ID: "r_a"}, score: 80},
		{view: RecipeView{ID: "r_c"}, score: 80},
	}
	ordered := orderScoredCandidates(candidates, state, profile, 0)

	want := []string{"r_a", "r_b", "r_c"}
	for i, id := range want {
		if ordered[i].view.ID != id {
			t.Fatalf("position %d = %s, want %s", i, ordered[i].view.ID, id)
		}
	}
}

func TestOrderScoredCandidates_Idempotent(t *testing.T) {
	profile := uniformProfile(1, 2)
	profile.MicronutrientTargets = map[string]float64{"iron_mg": 10}
	state := emptyState(profile, 1)

	rich := uniformRecipe("rich")
	rich.Nutrition.Micronutrients = &models.MicronutrientProfile{IronMg: 3}

	candidates := []scoredCandidate{
		{view: RecipeView{ID: "plain"}, score: 62},
		{view: viewOf(&rich), score: 62},
		{view: RecipeView{ID: "other"}, score: 91},
	}

	first := orderScoredCandidates(candidates, state, profile, 0)
	second := orderScoredCandidates(first, state, profile, 0)
	for i := range first {
		if first[i].view.ID != second[i].view.ID {
			t.Fatalf("re-sorting changed order at %d: %s vs %s", i, first[i].view.ID, second[i].view.ID)
		}
	}
}

func TestOrderScoredCandidates_VariantsOfSameRecipe(t *testing.T) {
	profile := uniformProfile(1, 2)
	state := emptyState(profile, 1)

	base := uniformRecipe("r1")
	candidates := []scoredCandidate{
		{view: variantViewOf(&base, 2, base.Nutrition), score: 80},
		{view: viewOf(&base), score: 80},
		{view: variantViewOf(&base, 1, base.Nutrition), score: 80},
	}
	ordered := orderScoredCandidates(candidates, state, profile, 0)

	for i, wantVariant := range []int{0, 1, 2} {
		if ordered[i].view.VariantIndex != wantVariant {
			t.Fatalf("position %d variant = %d, want %d", i, ordered[i].view.VariantIndex, wantVariant)
		}
	}
}

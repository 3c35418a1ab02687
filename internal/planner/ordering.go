package planner

import (
	"math"
	"sort"

	"meal-plan-engine/internal/models"
)

// scoredCandidate is one entry of a decision point's ordered candidate list.
type scoredCandidate struct {
	view  RecipeView
	score float64
}

// nutrientsStillNeeded returns the currently-deficient tracked nutrients and
// their remaining gaps for the day, against adjusted daily targets.
func nutrientsStillNeeded(state *searchState, profile *models.PlanningUserProfile, dayIndex int) map[string]float64 {
	tracked := profile.MicronutrientTargets
	if len(tracked) == 0 {
		return nil
	}
	daysLeft := state.weekly.DaysRemaining
	if daysLeft <= 0 {
		daysLeft = 1
	}
	var consumed map[string]float64
	if t := state.tracker(dayIndex); t != nil {
		consumed = t.MicronutrientsConsumed
	}
	out := make(map[string]float64)
	for name, baseTarget := range tracked {
		if baseTarget <= 0 {
			continue
		}
		adjusted := AdjustedDailyTarget(baseTarget, state.weekly.CarryoverNeeds[name], daysLeft)
		if cur := consumed[name]; cur < adjusted {
			out[name] = adjusted - cur
		}
	}
	return out
}

// gapFillCount counts the deficient nutrients the recipe supplies at all.
func gapFillCount(view RecipeView, gaps map[string]float64) int {
	if len(gaps) == 0 || view.Nutrition.Micronutrients == nil {
		return 0
	}
	micro := view.micronutrients()
	count := 0
	for name := range gaps {
		if micro[name] > 0 {
			count++
		}
	}
	return count
}

// deficitReduction sums, over deficient nutrients, the recipe's contribution
// as a fraction of the gap, capped at 1 per nutrient.
func deficitReduction(view RecipeView, gaps map[string]float64) float64 {
	if len(gaps) == 0 || view.Nutrition.Micronutrients == nil {
		return 0
	}
	micro := view.micronutrients()
	total := 0.0
	for name, gap := range gaps {
		if gap <= 0 {
			continue
		}
		if amount := micro[name]; amount > 0 {
			total += math.Min(1, amount/gap)
		}
	}
	return total
}

// likedFoodsCount counts recipe ingredients whose normalized name appears in
// the user's liked foods.
func likedFoodsCount(view RecipeView, liked map[string]bool) int {
	if len(liked) == 0 {
		return 0
	}
	count := 0
	for _, ing := range view.Ingredients {
		if liked[normalizeName(ing.Name)] {
			count++
		}
	}
	return count
}

// orderingKey is the tie-break cascade: ascending sort on it yields the best
// next placement first. The recipe ID (and variant index among variants of
// one recipe) makes the key a total order.
type orderingKey struct {
	negScore      float64
	negGapFill    int
	negDeficitRed float64
	negLiked      int
	recipeID      string
	variantIndex  int
}

func (a orderingKey) less(b orderingKey) bool {
	if a.negScore != b.negScore {
		return a.negScore < b.negScore
	}
	if a.negGapFill != b.negGapFill {
		return a.negGapFill < b.negGapFill
	}
	if a.negDeficitRed != b.negDeficitRed {
		return a.negDeficitRed < b.negDeficitRed
	}
	if a.negLiked != b.negLiked {
		return a.negLiked < b.negLiked
	}
	if a.recipeID != b.recipeID {
		return a.recipeID < b.recipeID
	}
	return a.variantIndex < b.variantIndex
}

// orderScoredCandidates sorts scored candidates into the deterministic
// sequence: composite score descending, then more gap-fill coverage, then
// more deficit reduction, then more liked foods, then recipe ID ascending.
// The sort is stable with respect to equal keys.
func orderScoredCandidates(candidates []scoredCandidate, state *searchState, profile *models.PlanningUserProfile, dayIndex int) []scoredCandidate {
	gaps := nutrientsStillNeeded(state, profile, dayIndex)
	liked := normalizedSet(profile.LikedFoods)

	keys := make([]orderingKey, len(candidates))
	for i, c := range candidates {
		keys[i] = orderingKey{
			negScore:      -c.score,
			negGapFill:    -gapFillCount(c.view, gaps),
			negDeficitRed: -deficitReduction(c.view, gaps),
			negLiked:      -likedFoodsCount(c.view, liked),
			recipeID:      c.view.ID,
			variantIndex:  c.view.VariantIndex,
		}
	}
	indexes := make([]int, len(candidates))
	for i := range indexes {
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(i, j int) bool {
		return keys[indexes[i]].less(keys[indexes[j]])
	})
	out := make([]scoredCandidate, len(candidates))
	for i, idx := range indexes {
		out[i] = candidates[idx]
	}
	return out
}

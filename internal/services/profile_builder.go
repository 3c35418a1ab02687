package services

import (
	"context"
	"fmt"

	"meal-plan-engine/internal/logger"
	"meal-plan-engine/internal/models"
)

// NutritionProfileBuilder computes per-recipe nutrition by resolving each
// ingredient through the cache (and the food-data client on misses), then
// scaling to the ingredient's quantity and summing.
type NutritionProfileBuilder struct {
	normalizer *IngredientNormalizer
	cache      *NutrientCache
	client     *FoodDataClient
	log        *logger.Logger
}

// NewNutritionProfileBuilder wires the ingestion pipeline together. The
// client may be nil, in which case only cached ingredients resolve.
func NewNutritionProfileBuilder(normalizer *IngredientNormalizer, cache *NutrientCache, client *FoodDataClient, log *logger.Logger) *NutritionProfileBuilder {
	return &NutritionProfileBuilder{
		normalizer: normalizer,
		cache:      cache,
		client:     client,
		log:        log,
	}
}

// BuildForRecipe computes the recipe's total nutrition from its ingredients.
// "To taste" ingredients contribute nothing; any unresolvable ingredient is
// an error so silent zeroes never corrupt plan totals.
func (b *NutritionProfileBuilder) BuildForRecipe(ctx context.Context, recipe *models.PlanningRecipe) (models.NutritionProfile, error) {
	total := models.NutritionProfile{}
	for _, ing := range recipe.Ingredients {
		if ing.IsToTaste {
			continue
		}
		per100g, err := b.resolve(ctx, ing.Name)
		if err != nil {
			return models.NutritionProfile{}, fmt.Errorf("recipe %s: %w", recipe.ID, err)
		}
		scaled, err := ScaleNutrition(per100g, ing)
		if err != nil {
			return models.NutritionProfile{}, fmt.Errorf("recipe %s: %w", recipe.ID, err)
		}
		total = total.Add(scaled)
	}
	return total, nil
}

// resolve returns per-100g nutrition for one ingredient name.
func (b *NutritionProfileBuilder) resolve(ctx context.Context, name string) (models.NutritionProfile, error) {
	canonical := b.normalizer.Normalize(name).CanonicalName

	if cached, err := b.cache.Get(ctx, canonical); err != nil {
		return models.NutritionProfile{}, err
	} else if cached != nil {
		return cached.Nutrition, nil
	}

	if b.client == nil {
		return models.NutritionProfile{}, fmt.Errorf("ingredient %q not in cache and no food-data client configured", name)
	}

	lookup, err := b.client.Lookup(ctx, canonical)
	if err != nil {
		return models.NutritionProfile{}, fmt.Errorf("lookup failed for %q: %w", name, err)
	}
	if lookup == nil {
		return models.NutritionProfile{}, fmt.Errorf("no food-data match for %q (canonical %q)", name, canonical)
	}
	if err := b.cache.Put(ctx, lookup); err != nil {
		b.log.Warn("failed to cache nutrient lookup", "canonical_name", canonical, "error", err.Error())
	}
	return lookup.Nutrition, nil
}

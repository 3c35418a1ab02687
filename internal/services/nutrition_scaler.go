package services

import (
	"fmt"

	"meal-plan-engine/internal/models"
)

// Strict unit to gram conversions. The only volume units are ml and l, taken
// at water density; anything absent from this table is an error, never a guess.
var unitToGrams = map[string]float64{
	"g":    1,
	"gram": 1,
	"kg":   1000,
	"mg":   0.001,
	"oz":   28.3495,
	"lb":   453.592,
	"ml":   1, // water-density baseline for liquid ingredients quoted in ml
	"l":    1000,
}

// ErrUnknownUnit marks a quantity whose unit has no explicit gram conversion.
type ErrUnknownUnit struct {
	Unit string
}

func (e ErrUnknownUnit) Error() string {
	return fmt.Sprintf("no gram conversion for unit %q; provide an explicit weight", e.Unit)
}

// ScaleNutrition scales a per-100g nutrition profile to an ingredient
// quantity. "To taste" ingredients scale to zero.
func ScaleNutrition(per100g models.NutritionProfile, ing models.Ingredient) (models.NutritionProfile, error) {
	if ing.IsToTaste {
		return models.NutritionProfile{}, nil
	}
	grams, err := toGrams(ing.Quantity, ing.Unit)
	if err != nil {
		return models.NutritionProfile{}, fmt.Errorf("ingredient %q: %w", ing.Name, err)
	}
	factor := grams / 100

	out := models.NutritionProfile{
		Calories: per100g.Calories * factor,
		ProteinG: per100g.ProteinG * factor,
		FatG:     per100g.FatG * factor,
		CarbsG:   per100g.CarbsG * factor,
	}
	if per100g.Micronutrients != nil {
		micro := &models.MicronutrientProfile{}
		for name, v := range per100g.Micronutrients.ToMap() {
			micro.SetNutrient(name, v*factor)
		}
		out.Micronutrients = micro
	}
	return out, nil
}

func toGrams(quantity float64, unit string) (float64, error) {
	if quantity < 0 {
		return 0, fmt.Errorf("quantity must be non-negative, got %g", quantity)
	}
	factor, ok := unitToGrams[normalizeUnit(unit)]
	if !ok {
		return 0, ErrUnknownUnit{Unit: unit}
	}
	return quantity * factor, nil
}

func normalizeUnit(unit string) string {
	switch unit {
	case "G", "Gram", "grams", "Grams":
		return "g"
	case "ML", "mL", "milliliter", "milliliters":
		return "ml"
	case "ounce", "ounces":
		return "oz"
	case "pound", "pounds":
		return "lb"
	}
	return unit
}

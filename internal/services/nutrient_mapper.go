package services

import (
	"meal-plan-engine/internal/models"
)

// FoodData Central nutrient numbers mapped to the internal nutrient schema.
// The mapping is a static table: unknown nutrients are ignored, missing
// nutrients default to zero, and amounts are taken as reported, without unit
// conversion.
var fdcNutrientNumbers = map[string]string{
	"320": "vitamin_a_ug",
	"401": "vitamin_c_mg",
	"324": "vitamin_d_iu",
	"323": "vitamin_e_mg",
	"430": "vitamin_k_ug",
	"404": "b1_thiamine_mg",
	"405": "b2_riboflavin_mg",
	"406": "b3_niacin_mg",
	"410": "b5_pantothenic_acid_mg",
	"415": "b6_pyridoxine_mg",
	"418": "b12_cobalamin_ug",
	"417": "folate_ug",
	"301": "calcium_mg",
	"312": "copper_mg",
	"303": "iron_mg",
	"304": "magnesium_mg",
	"315": "manganese_mg",
	"305": "phosphorus_mg",
	"306": "potassium_mg",
	"317": "selenium_ug",
	"307": "sodium_mg",
	"309": "zinc_mg",
	"291": "fiber_g",
	"851": "omega_3_g",
	"675": "omega_6_g",
}

// Macro nutrient numbers.
const (
	fdcNumberEnergy  = "208"
	fdcNumberProtein = "203"
	fdcNumberFat     = "204"
	fdcNumberCarbs   = "205"
)

// FoodNutrient is one nutrient row from a food-data lookup, amounts per 100g.
type FoodNutrient struct {
	Number string  `json:"number"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unitName"`
}

// MapNutrients converts raw food-data nutrient rows into a NutritionProfile
// per 100g of the ingredient.
func MapNutrients(nutrients []FoodNutrient) models.NutritionProfile {
	profile := models.NutritionProfile{}
	micro := &models.MicronutrientProfile{}
	hasMicro := false

	for _, n := range nutrients {
		switch n.Number {
		case fdcNumberEnergy:
			profile.Calories = n.Amount
		case fdcNumberProtein:
			profile.ProteinG = n.Amount
		case fdcNumberFat:
			profile.FatG = n.Amount
		case fdcNumberCarbs:
			profile.CarbsG = n.Amount
		default:
			if field, ok := fdcNutrientNumbers[n.Number]; ok {
				micro.SetNutrient(field, micro.Nutrient(field)+n.Amount)
				hasMicro = true
			}
		}
	}

	if hasMicro {
		profile.Micronutrients = micro
	}
	return profile
}

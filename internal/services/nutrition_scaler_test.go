package services

import (
	"errors"
	"math"
	"testing"

	"meal-plan-engine/internal/models"
)

func per100g() models.NutritionProfile {
	return models.NutritionProfile{
		Calories:       200,
		ProteinG:       20,
		FatG:           10,
		CarbsG:         5,
		Micronutrients: &models.MicronutrientProfile{IronMg: 2},
	}
}

func TestScaleNutrition(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		unit     string
		wantCal  float64
	}{
		{"grams", 200, "g", 400},
		{"kilograms", 0.5, "kg", 1000},
		{"ounces", 100, "oz", 200 * 28.3495},
		{"milliliters", 50, "ml", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ScaleNutrition(per100g(), models.Ingredient{Name: "x", Quantity: tt.quantity, Unit: tt.unit})
			if err != nil {
				t.Fatalf("ScaleNutrition: %v", err)
			}
			if math.Abs(out.Calories-tt.wantCal) > 1e-6 {
				t.Errorf("calories = %v, want %v", out.Calories, tt.wantCal)
			}
		})
	}
}

func TestScaleNutrition_ScalesMicronutrients(t *testing.T) {
	out, err := ScaleNutrition(per100g(), models.Ingredient{Name: "x", Quantity: 300, Unit: "g"})
	if err != nil {
		t.Fatalf("ScaleNutrition: %v", err)
	}
	if out.Micronutrients.IronMg != 6 {
		t.Errorf("iron = %v, want 6", out.Micronutrients.IronMg)
	}
}

func TestScaleNutrition_ToTasteIsZero(t *testing.T) {
	out, err := ScaleNutrition(per100g(), models.Ingredient{Name: "salt", Unit: "to taste", IsToTaste: true})
	if err != nil {
		t.Fatalf("ScaleNutrition: %v", err)
	}
	if out.Calories != 0 || out.Micronutrients != nil {
		t.Errorf("to-taste ingredient contributed nutrition: %+v", out)
	}
}

func TestScaleNutrition_UnknownUnitErrors(t *testing.T) {
	_, err := ScaleNutrition(per100g(), models.Ingredient{Name: "flour", Quantity: 1, Unit: "cup"})
	if err == nil {
		t.Fatal("volume unit without density should error, not guess")
	}
	var unknown ErrUnknownUnit
	if !errors.As(err, &unknown) {
		t.Errorf("error %v is not ErrUnknownUnit", err)
	}
}

func TestScaleNutrition_NegativeQuantityErrors(t *testing.T) {
	if _, err := ScaleNutrition(per100g(), models.Ingredient{Name: "x", Quantity: -1, Unit: "g"}); err == nil {
		t.Error("negative quantity accepted")
	}
}

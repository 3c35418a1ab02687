package pdf

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf"

	"meal-plan-engine/internal/models"
)

// RenderMealPlan renders a successful meal plan result as a PDF: one section
// per day with its assignments and macro totals, then a weekly summary.
func RenderMealPlan(result *models.MealPlanResult) ([]byte, error) {
	if result == nil || !result.Success {
		return nil, fmt.Errorf("only successful meal plans can be rendered")
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Arial", "B", 16)
	doc.Cell(0, 10, "Meal Plan")
	doc.Ln(12)

	byDay := make(map[int][]models.Assignment)
	for _, a := range result.Plan {
		byDay[a.DayIndex] = append(byDay[a.DayIndex], a)
	}
	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)

	for _, day := range days {
		doc.SetFont("Arial", "B", 13)
		doc.Cell(0, 8, fmt.Sprintf("Day %d", day+1))
		doc.Ln(8)

		doc.SetFont("Arial", "", 11)
		for _, a := range byDay[day] {
			line := fmt.Sprintf("  Slot %d: %s", a.SlotIndex+1, a.RecipeID)
			if a.VariantIndex > 0 {
				line += fmt.Sprintf(" (downscaled, step %d)", a.VariantIndex)
			}
			doc.Cell(0, 6, line)
			doc.Ln(6)
		}

		if tracker, ok := result.DailyTrackers[day]; ok {
			doc.SetFont("Arial", "I", 10)
			doc.Cell(0, 6, fmt.Sprintf("  %.0f kcal, %.1fg protein, %.1fg fat, %.1fg carbs",
				tracker.CaloriesConsumed, tracker.ProteinConsumed, tracker.FatConsumed, tracker.CarbsConsumed))
			doc.Ln(8)
		}
	}

	if result.WeeklyTracker != nil {
		doc.SetFont("Arial", "B", 13)
		doc.Cell(0, 8, "Weekly summary")
		doc.Ln(8)
		doc.SetFont("Arial", "", 11)
		w := result.WeeklyTracker.WeeklyTotals
		doc.Cell(0, 6, fmt.Sprintf("  %.0f kcal, %.1fg protein, %.1fg fat, %.1fg carbs across %d days",
			w.Calories, w.ProteinG, w.FatG, w.CarbsG, result.WeeklyTracker.DaysCompleted))
		doc.Ln(8)
	}

	if result.Warning != nil {
		doc.SetFont("Arial", "B", 11)
		doc.Cell(0, 6, "Advisory")
		doc.Ln(6)
		doc.SetFont("Arial", "", 10)
		doc.MultiCell(0, 5, fmt.Sprintf(
			"Weekly sodium %.0f mg exceeds the recommended maximum of %.0f mg (%.0f%%). Consider lower-sodium recipes.",
			result.Warning.WeeklySodiumMg, result.Warning.RecommendedMaxMg, result.Warning.Ratio*100), "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

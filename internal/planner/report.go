package planner

import (
	"meal-plan-engine/internal/models"
)

// planSnapshot deep-copies assignments and trackers into a serializable
// snapshot. Updates to live search state must never be visible through a
// snapshot.
func planSnapshot(assignments []models.Assignment, trackers map[int]*models.DailyTracker) *models.PlanSnapshot {
	out := &models.PlanSnapshot{
		Assignments:   make([]models.Assignment, len(assignments)),
		DailyTrackers: make(map[int]*models.DailyTracker, len(trackers)),
	}
	copy(out.Assignments, assignments)
	for day, t := range trackers {
		out.DailyTrackers[day] = t.Clone()
	}
	return out
}

// buildSodiumAdvisory returns the weekly sodium warning when tracked sodium
// exceeds twice the prorated RDI, else nil.
func buildSodiumAdvisory(weekly *models.WeeklyTracker, profile *models.PlanningUserProfile, days int) *models.SodiumAdvisory {
	dailyRDI, tracked := profile.MicronutrientTargets["sodium_mg"]
	if !tracked || dailyRDI <= 0 {
		return nil
	}
	weeklySodium := weekly.WeeklyTotals.Micronutrients.Nutrient("sodium_mg")
	recommendedMax := 2 * dailyRDI * float64(days)
	if weeklySodium <= recommendedMax {
		return nil
	}
	return &models.SodiumAdvisory{
		Type:             "sodium_advisory",
		WeeklySodiumMg:   weeklySodium,
		RecommendedMaxMg: recommendedMax,
		Ratio:            weeklySodium / recommendedMax,
	}
}

// deficientNutrients lists every tracked nutrient short of its weekly
// requirement, classified marginal (one best day closes the gap) vs
// structural (even the best day cannot).
func deficientNutrients(weekly *models.WeeklyTracker, profile *models.PlanningUserProfile, days int, maxDailyAchievable map[string]map[int]float64) []models.DeficientNutrient {
	var out []models.DeficientNutrient
	micro := weekly.WeeklyTotals.Micronutrients.ToMap()
	for _, name := range sortedTargetNames(profile.MicronutrientTargets) {
		dailyRDI := profile.MicronutrientTargets[name]
		if dailyRDI <= 0 {
			continue
		}
		required := dailyRDI * float64(days)
		achieved := micro[name]
		deficit := required - achieved
		if deficit <= 0 {
			continue
		}
		bestDay := 0.0
		for m := 1; m <= models.MaxSlotsPerDay; m++ {
			if v, ok := maxDailyAchievable[name][m]; ok && v > bestDay {
				bestDay = v
			}
		}
		classification := models.DeficitStructural
		if deficit <= bestDay {
			classification = models.DeficitMarginal
		}
		out = append(out, models.DeficientNutrient{
			Nutrient:       name,
			Achieved:       achieved,
			Required:       required,
			Deficit:        deficit,
			Classification: classification,
		})
	}
	return out
}

// successResult builds the TC-1 / TC-4 envelope.
func successResult(terminationCode string, assignments []models.Assignment, trackers map[int]*models.DailyTracker, weekly *models.WeeklyTracker, profile *models.PlanningUserProfile, days int, stats *models.SearchStats) *models.MealPlanResult {
	plan := make([]models.Assignment, len(assignments))
	copy(plan, assignments)
	outTrackers := make(map[int]*models.DailyTracker, len(trackers))
	for day, t := range trackers {
		outTrackers[day] = t.Clone()
	}
	return &models.MealPlanResult{
		Success:         true,
		TerminationCode: terminationCode,
		Plan:            plan,
		DailyTrackers:   outTrackers,
		WeeklyTracker:   weekly.Clone(),
		Warning:         buildSodiumAdvisory(weekly, profile, days),
		Stats:           stats,
	}
}

// failureResult builds the failure envelope for one failure mode.
func failureResult(terminationCode, failureMode string, report *models.FailureReport, warning *models.SodiumAdvisory, stats *models.SearchStats) *models.MealPlanResult {
	return &models.MealPlanResult{
		Success:         false,
		TerminationCode: terminationCode,
		FailureMode:     failureMode,
		Report:          report,
		Warning:         warning,
		Stats:           stats,
	}
}

package models

// Termination codes for a finished search.
const (
	TerminationFullWeek       = "TC-1"
	TerminationInfeasible     = "TC-2"
	TerminationLimitExhausted = "TC-3"
	TerminationSingleDay      = "TC-4"
)

// Failure modes for an unsuccessful search.
const (
	FailureUnfillableSlot     = "FM-1"
	FailureDailyInfeasible    = "FM-2"
	FailurePinnedConflict     = "FM-3"
	FailureWeeklyShortfall    = "FM-4"
	FailureAttemptLimit       = "FM-5"
)

// SodiumAdvisory represents the weekly sodium warning attached to a result
// when tracked sodium exceeds twice the prorated RDI.
type SodiumAdvisory struct {
	Type             string  `json:"type"`
	WeeklySodiumMg   float64 `json:"weekly_sodium_mg"`
	RecommendedMaxMg float64 `json:"recommended_max_mg"`
	Ratio            float64 `json:"ratio"`
}

// PlanSnapshot represents a serializable view of a (possibly partial) plan,
// used for FM-2 closest plans and FM-5 best partials.
type PlanSnapshot struct {
	Assignments   []Assignment            `json:"assignments"`
	DailyTrackers map[int]*DailyTracker   `json:"daily_trackers"`
}

// UnfillableSlot describes an FM-1 slot that no recipe can fill.
type UnfillableSlot struct {
	Day                 int      `json:"day"`
	SlotIndex           int      `json:"slot_index"`
	EligibleRecipeCount int      `json:"eligible_recipe_count"`
	BlockingConstraints []string `json:"blocking_constraints"`
}

// FailedDay describes an FM-2 day that could not pass daily validation.
type FailedDay struct {
	Day              int                `json:"day"`
	MacroViolations  map[string]float64 `json:"macro_violations"`
	ULViolations     []ULViolation      `json:"ul_violations,omitempty"`
	ConstraintDetail string             `json:"constraint_detail,omitempty"`
}

// PinnedConflict describes an FM-3 pin that violates a hard constraint.
type PinnedConflict struct {
	Day        int    `json:"day"`
	SlotIndex  int    `json:"slot_index"`
	RecipeID   string `json:"recipe_id"`
	ViolatedHC string `json:"violated_hc"`
}

// Classification labels for FM-4 deficient nutrients.
const (
	DeficitMarginal   = "marginal"
	DeficitStructural = "structural"
)

// DeficientNutrient describes one FM-4 weekly shortfall.
type DeficientNutrient struct {
	Nutrient       string  `json:"nutrient"`
	Achieved       float64 `json:"achieved"`
	Required       float64 `json:"required"`
	Deficit        float64 `json:"deficit"`
	Classification string  `json:"classification"`
}

// FailureReport carries mode-specific diagnostics for an unsuccessful search.
// Only the fields for the active failure mode are populated.
type FailureReport struct {
	UnfillableSlots    []UnfillableSlot    `json:"unfillable_slots,omitempty"`
	FailedDays         []FailedDay         `json:"failed_days,omitempty"`
	ClosestPlan        *PlanSnapshot       `json:"closest_plan,omitempty"`
	PinnedConflicts    []PinnedConflict    `json:"pinned_conflicts,omitempty"`
	DeficientNutrients []DeficientNutrient `json:"deficient_nutrients,omitempty"`
	Attempts           int                 `json:"attempts,omitempty"`
	Backtracks         int                 `json:"backtracks,omitempty"`
	BestPlan           *PlanSnapshot       `json:"best_plan,omitempty"`
	BestPlanViolations map[string]float64  `json:"best_plan_violations,omitempty"`
}

// SearchStats carries optional observational metrics for one search run.
// Collecting stats never affects search decisions.
type SearchStats struct {
	Attempts         int             `json:"attempts"`
	Backtracks       int             `json:"backtracks"`
	BranchingFactors map[string]int  `json:"branching_factors,omitempty"`
	RuntimeSeconds   float64         `json:"runtime_seconds"`
	DayRuntimes      map[int]float64 `json:"day_runtimes,omitempty"`
}

// MealPlanResult is the canonical result envelope for both success and
// failure. Search failures are results, not errors.
type MealPlanResult struct {
	Success         bool                  `json:"success"`
	TerminationCode string                `json:"termination_code"`
	FailureMode     string                `json:"failure_mode,omitempty"`
	Plan            []Assignment          `json:"plan"`
	DailyTrackers   map[int]*DailyTracker `json:"daily_trackers,omitempty"`
	WeeklyTracker   *WeeklyTracker        `json:"weekly_tracker,omitempty"`
	Warning         *SodiumAdvisory       `json:"warning,omitempty"`
	Report          *FailureReport        `json:"report,omitempty"`
	Stats           *SearchStats          `json:"stats,omitempty"`
}

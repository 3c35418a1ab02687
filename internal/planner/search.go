package planner

import (
	"fmt"
	"math"
	"time"

	"meal-plan-engine/internal/models"
)

// DefaultAttemptLimit bounds the search when the caller does not override it.
const DefaultAttemptLimit = 50_000

// Options configures one search invocation.
type Options struct {
	AttemptLimit int
	CollectStats bool
	CarbSources  *ScalableCarbSources
}

// decisionPoint is a (day_index, slot_index) pair at which the search chooses
// one recipe.
type decisionPoint struct {
	day  int
	slot int
}

func (p decisionPoint) String() string { return fmt.Sprintf("%d/%d", p.day, p.slot) }

// cacheEntry is the per-decision-point candidate cache: the ordered scored
// candidates and a pointer one past the last tried candidate.
type cacheEntry struct {
	ordered []scoredCandidate
	pointer int
}

// appliedAssignment records one applied placement with the exact view used,
// so reverse-applying restores state bit-for-bit (including variants).
type appliedAssignment struct {
	day       int
	slot      int
	view      RecipeView
	isWorkout bool
}

func (a appliedAssignment) toModel() models.Assignment {
	return models.Assignment{
		DayIndex:     a.day,
		SlotIndex:    a.slot,
		RecipeID:     a.view.ID,
		VariantIndex: a.view.VariantIndex,
	}
}

// searcher owns all mutable state for one search invocation.
type searcher struct {
	profile    *models.PlanningUserProfile
	pool       []models.PlanningRecipe
	recipeByID map[string]*models.PlanningRecipe
	days       int
	resolvedUL *models.UpperLimits
	limit      int

	state   *searchState
	scaler  *carbScaler
	bounds  *macroBounds
	maxDailyAchievable map[string]map[int]float64
	pinned  map[models.PinKey]string

	order         []decisionPoint
	cache         map[decisionPoint]*cacheEntry
	assignments   []appliedAssignment
	completedDays map[int]bool

	attempts   int
	backtracks int

	bestAssignments []models.Assignment
	bestTrackers    map[int]*models.DailyTracker

	sodiumAdvisory *models.SodiumAdvisory

	collectStats bool
	startedAt    time.Time
	dayStarts    map[int]time.Time
	dayRuntimes  map[int]float64
	branching    map[string]int
}

// Run executes the full meal plan search. Search failures surface as a
// MealPlanResult with Success=false; only input and data errors return a
// non-nil error.
func Run(profile *models.PlanningUserProfile, pool []models.PlanningRecipe, days int, resolvedUL *models.UpperLimits, opts Options) (*models.MealPlanResult, error) {
	if err := ValidatePlanningHorizon(days); err != nil {
		return nil, err
	}
	if err := ValidateScheduleStructure(profile.Schedule, days); err != nil {
		return nil, err
	}

	recipeByID := make(map[string]*models.PlanningRecipe, len(pool))
	for i := range pool {
		if _, dup := recipeByID[pool[i].ID]; !dup {
			recipeByID[pool[i].ID] = &pool[i]
		}
	}

	// Pinned pre-validation: FM-3 without entering search.
	pinResult, err := ValidatePinnedAssignments(profile, recipeByID, days)
	if err != nil {
		return nil, err
	}
	if !pinResult.Success {
		report := &models.FailureReport{
			PinnedConflicts: []models.PinnedConflict{{
				Day:        pinResult.FailedPinDay,
				SlotIndex:  pinResult.FailedPinSlot,
				RecipeID:   pinResult.FailedRecipeID,
				ViolatedHC: pinResult.FailedHC,
			}},
		}
		return failureResult(models.TerminationInfeasible, models.FailurePinnedConflict, report, nil, nil), nil
	}

	initial, err := BuildInitialState(profile, recipeByID, days)
	if err != nil {
		return nil, err
	}

	limit := opts.AttemptLimit
	if limit <= 0 {
		limit = DefaultAttemptLimit
	}

	slotCounts := make(map[int]bool, days)
	for d := 0; d < days; d++ {
		slotCounts[len(profile.Schedule[d])] = true
	}
	trackedNames := sortedTargetNames(profile.MicronutrientTargets)
	if len(trackedNames) == 0 {
		trackedNames = models.NutrientNames()
	}

	s := &searcher{
		profile:    profile,
		pool:       pool,
		recipeByID: recipeByID,
		days:       days,
		resolvedUL: resolvedUL,
		limit:      limit,
		state: &searchState{
			dailyTrackers: initial.DailyTrackers,
			weekly:        initial.WeeklyTracker,
			schedule:      profile.Schedule,
		},
		scaler:             newCarbScaler(profile, opts.CarbSources),
		bounds:             precomputeMacroBounds(pool, models.MaxSlotsPerDay),
		maxDailyAchievable: precomputeMaxDailyAchievable(pool, trackedNames, allSlotCounts()),
		pinned:             profile.PinnedByKey(),
		cache:              make(map[decisionPoint]*cacheEntry),
		completedDays:      make(map[int]bool),
		collectStats:       opts.CollectStats,
	}
	for d := 0; d < days; d++ {
		for slot := range profile.Schedule[d] {
			s.order = append(s.order, decisionPoint{day: d, slot: slot})
		}
	}
	for _, a := range initial.Assignments {
		sc := contextFor(profile.Schedule, a.DayIndex, a.SlotIndex, profile.ActivitySchedule)
		s.assignments = append(s.assignments, appliedAssignment{
			day:       a.DayIndex,
			slot:      a.SlotIndex,
			view:      viewOf(recipeByID[a.RecipeID]),
			isWorkout: sc.isWorkout,
		})
	}
	s.bestAssignments = s.currentAssignments()
	s.bestTrackers = cloneTrackers(s.state.dailyTrackers)
	if s.collectStats {
		s.startedAt = time.Now()
		s.dayStarts = make(map[int]time.Time)
		s.dayRuntimes = make(map[int]float64)
		s.branching = make(map[string]int)
	}

	return s.run()
}

// allSlotCounts returns every legal slot count; the achievable table covers
// them all so FM-4 classification can probe any M.
func allSlotCounts() map[int]bool {
	out := make(map[int]bool, models.MaxSlotsPerDay)
	for m := 1; m <= models.MaxSlotsPerDay; m++ {
		out[m] = true
	}
	return out
}

func cloneTrackers(trackers map[int]*models.DailyTracker) map[int]*models.DailyTracker {
	out := make(map[int]*models.DailyTracker, len(trackers))
	for day, t := range trackers {
		out[day] = t.Clone()
	}
	return out
}

func (s *searcher) currentAssignments() []models.Assignment {
	out := make([]models.Assignment, len(s.assignments))
	for i, a := range s.assignments {
		out[i] = a.toModel()
	}
	return out
}

func (s *searcher) isPinned(p decisionPoint) bool {
	_, ok := s.pinned[models.PinKey{Day: p.day + 1, Slot: p.slot}]
	return ok
}

func (s *searcher) hasAssignment(p decisionPoint) bool {
	for _, a := range s.assignments {
		if a.day == p.day && a.slot == p.slot {
			return true
		}
	}
	return false
}

// run is the forward/backtrack loop. Decision order is lexicographic
// (day_index, slot_index).
func (s *searcher) run() (*models.MealPlanResult, error) {
	i := 0
	for i < len(s.order) {
		p := s.order[i]

		if s.attempts >= s.limit {
			return s.attemptLimitResult(), nil
		}

		if s.collectStats && p.slot == 0 {
			if _, seen := s.dayStarts[p.day]; !seen {
				s.dayStarts[p.day] = time.Now()
			}
		}

		// FC-4 at the start of every day after the first.
		if p.day > 0 && p.slot == 0 {
			if !fc4CrossDayRDI(p.day, s.state, s.profile, s.days, s.maxDailyAchievable) {
				target, ok := s.findBacktrackTarget(i)
				if !ok {
					report := &models.FailureReport{
						DeficientNutrients: deficientNutrients(s.state.weekly, s.profile, s.days, s.maxDailyAchievable),
						ClosestPlan:        planSnapshot(s.currentAssignments(), s.state.dailyTrackers),
					}
					return failureResult(models.TerminationInfeasible, models.FailureWeeklyShortfall, report, s.sodiumAdvisory, s.stats()), nil
				}
				i = s.unwindTo(target)
				continue
			}
		}

		if s.isPinned(p) {
			if s.hasAssignment(p) {
				i++
				if result, done := s.boundaryChecksAfter(p, &i); done {
					return result, nil
				}
				continue
			}
			recipeID := s.pinned[models.PinKey{Day: p.day + 1, Slot: p.slot}]
			sc := contextFor(s.state.schedule, p.day, p.slot, s.profile.ActivitySchedule)
			s.apply(p, viewOf(s.recipeByID[recipeID]), sc.isWorkout)
			i++
			if result, done := s.boundaryChecksAfter(p, &i); done {
				return result, nil
			}
			continue
		}

		entry, ok := s.cache[p]
		if !ok {
			cg, err := generateCandidates(s.pool, p.day, p.slot, s.state, s.profile, s.resolvedUL, s.bounds, s.scaler)
			if err != nil {
				return nil, err
			}
			if cg.triggerBacktrack {
				target, found := s.findBacktrackTarget(i)
				if !found {
					report := &models.FailureReport{
						UnfillableSlots: []models.UnfillableSlot{{
							Day:                 p.day,
							SlotIndex:           p.slot,
							EligibleRecipeCount: len(cg.candidates),
							BlockingConstraints: s.blockingConstraints(p),
						}},
						ClosestPlan: planSnapshot(s.currentAssignments(), s.state.dailyTrackers),
					}
					return failureResult(models.TerminationInfeasible, models.FailureUnfillableSlot, report, s.sodiumAdvisory, s.stats()), nil
				}
				i = s.unwindTo(target)
				continue
			}
			scored := make([]scoredCandidate, 0, len(cg.candidates))
			for _, view := range cg.candidates {
				scored = append(scored, scoredCandidate{
					view:  view,
					score: compositeScore(view, p.day, p.slot, s.state, s.profile),
				})
			}
			entry = &cacheEntry{ordered: orderScoredCandidates(scored, s.state, s.profile, p.day)}
			s.cache[p] = entry
			if s.collectStats {
				s.branching[p.String()] = len(entry.ordered)
			}
		}

		if entry.pointer >= len(entry.ordered) {
			target, found := s.findBacktrackTarget(i)
			if !found {
				report := &models.FailureReport{
					ClosestPlan: planSnapshot(s.bestAssignments, s.bestTrackers),
				}
				return failureResult(models.TerminationInfeasible, models.FailureDailyInfeasible, report, s.sodiumAdvisory, s.stats()), nil
			}
			i = s.unwindTo(target)
			continue
		}

		candidate := entry.ordered[entry.pointer]
		sc := contextFor(s.state.schedule, p.day, p.slot, s.profile.ActivitySchedule)
		s.apply(p, candidate.view, sc.isWorkout)
		entry.pointer++
		i++

		if result, done := s.boundaryChecksAfter(p, &i); done {
			return result, nil
		}
	}

	report := &models.FailureReport{
		ClosestPlan: planSnapshot(s.bestAssignments, s.bestTrackers),
	}
	return failureResult(models.TerminationInfeasible, models.FailureDailyInfeasible, report, s.sodiumAdvisory, s.stats()), nil
}

// boundaryChecksAfter runs the day-boundary and week-boundary logic once the
// slot at p has been filled (or skipped as an already-applied pin). It
// returns (result, true) when the search terminates here; otherwise it may
// rewind i through backtracking.
func (s *searcher) boundaryChecksAfter(p decisionPoint, i *int) (*models.MealPlanResult, bool) {
	tracker := s.state.tracker(p.day)
	if tracker == nil || tracker.SlotsAssigned != tracker.SlotsTotal || s.completedDays[p.day] {
		return nil, false
	}

	ok, detail, macroViolations, ulViolations := s.dailyValidation(tracker)
	if !ok {
		target, found := s.findBacktrackTarget(*i)
		if !found {
			report := &models.FailureReport{
				FailedDays: []models.FailedDay{{
					Day:              p.day,
					MacroViolations:  macroViolations,
					ULViolations:     ulViolations,
					ConstraintDetail: detail,
				}},
				ClosestPlan: planSnapshot(s.currentAssignments(), s.state.dailyTrackers),
			}
			return failureResult(models.TerminationInfeasible, models.FailureDailyInfeasible, report, s.sodiumAdvisory, s.stats()), true
		}
		*i = s.unwindTo(target)
		return nil, false
	}

	s.completeDay(p.day)
	if s.collectStats {
		if start, okStart := s.dayStarts[p.day]; okStart {
			s.dayRuntimes[p.day] = time.Since(start).Seconds()
		}
	}

	if p.day != s.days-1 {
		return nil, false
	}

	// Week boundary.
	if s.days == 1 {
		return successResult(models.TerminationSingleDay, s.currentAssignments(), s.state.dailyTrackers, s.state.weekly, s.profile, s.days, s.stats()), true
	}
	if advisory := buildSodiumAdvisory(s.state.weekly, s.profile, s.days); advisory != nil {
		s.sodiumAdvisory = advisory
	}
	if weeklyOK := s.weeklyValidation(); !weeklyOK {
		target, found := s.findBacktrackTarget(*i)
		if !found {
			report := &models.FailureReport{
				DeficientNutrients: deficientNutrients(s.state.weekly, s.profile, s.days, s.maxDailyAchievable),
				ClosestPlan:        planSnapshot(s.currentAssignments(), s.state.dailyTrackers),
			}
			return failureResult(models.TerminationInfeasible, models.FailureWeeklyShortfall, report, s.sodiumAdvisory, s.stats()), true
		}
		*i = s.unwindTo(target)
		return nil, false
	}
	return successResult(models.TerminationFullWeek, s.currentAssignments(), s.state.dailyTrackers, s.state.weekly, s.profile, s.days, s.stats()), true
}

// apply places one candidate: tracker update, assignment record, attempt
// count and best-seen snapshot.
func (s *searcher) apply(p decisionPoint, view RecipeView, isWorkout bool) {
	tracker := s.state.tracker(p.day)
	if tracker == nil {
		tracker = models.NewDailyTracker(len(s.state.schedule[p.day]))
		s.state.dailyTrackers[p.day] = tracker
	}
	applyToTracker(tracker, view, isWorkout)
	s.assignments = append(s.assignments, appliedAssignment{day: p.day, slot: p.slot, view: view, isWorkout: isWorkout})
	s.attempts++
	if len(s.assignments) > len(s.bestAssignments) {
		s.bestAssignments = s.currentAssignments()
		s.bestTrackers = cloneTrackers(s.state.dailyTrackers)
	}
}

// completeDay folds the day into the weekly tracker: add nutrition, advance
// the completion counters, recompute carryover.
func (s *searcher) completeDay(dayIndex int) {
	tracker := s.state.dailyTrackers[dayIndex]
	s.state.weekly.WeeklyTotals = s.state.weekly.WeeklyTotals.Add(tracker.DayNutrition())
	s.state.weekly.DaysCompleted++
	s.state.weekly.DaysRemaining = s.days - s.state.weekly.DaysCompleted
	s.recomputeCarryover()
	s.completedDays[dayIndex] = true
}

// uncompleteDay reverses completeDay the moment a completed day loses its
// first assignment during unwinding, restoring the weekly tracker to the
// state before the day was folded in.
func (s *searcher) uncompleteDay(dayIndex int) {
	tracker := s.state.dailyTrackers[dayIndex]
	s.state.weekly.WeeklyTotals = s.state.weekly.WeeklyTotals.Sub(tracker.DayNutrition())
	s.state.weekly.DaysCompleted--
	s.state.weekly.DaysRemaining = s.days - s.state.weekly.DaysCompleted
	s.recomputeCarryover()
	delete(s.completedDays, dayIndex)
}

// recomputeCarryover sets carryover = max(0, daily_RDI*days_completed -
// weekly_total) for each tracked nutrient.
func (s *searcher) recomputeCarryover() {
	micro := s.state.weekly.WeeklyTotals.Micronutrients.ToMap()
	daysDone := float64(s.state.weekly.DaysCompleted)
	carryover := make(map[string]float64, len(s.profile.MicronutrientTargets))
	for name, dailyRDI := range s.profile.MicronutrientTargets {
		if dailyRDI <= 0 {
			continue
		}
		carryover[name] = math.Max(0, dailyRDI*daysDone-micro[name])
	}
	s.state.weekly.CarryoverNeeds = carryover
}

// dailyValidation checks a completed day: calories/protein/carbs within ±τ of
// target, fat within its hard range, the optional calorie ceiling, and the
// resolved upper limits.
func (s *searcher) dailyValidation(tracker *models.DailyTracker) (bool, string, map[string]float64, []models.ULViolation) {
	p := s.profile
	violations := make(map[string]float64)

	dailyCal := float64(p.DailyCalories)
	if dev := math.Abs(tracker.CaloriesConsumed - dailyCal); dev > DailyToleranceFraction*dailyCal {
		violations["calories"] = dev
		return false, "calories", violations, nil
	}
	if dev := math.Abs(tracker.ProteinConsumed - p.DailyProteinG); dev > DailyToleranceFraction*p.DailyProteinG {
		violations["protein"] = dev
		return false, "protein", violations, nil
	}
	if dev := math.Abs(tracker.CarbsConsumed - p.DailyCarbsG); dev > DailyToleranceFraction*p.DailyCarbsG {
		violations["carbs"] = dev
		return false, "carbs", violations, nil
	}
	if tracker.FatConsumed < p.DailyFatG.Min || tracker.FatConsumed > p.DailyFatG.Max {
		violations["fat"] = tracker.FatConsumed
		return false, "fat", violations, nil
	}
	if p.MaxDailyCalories != nil && tracker.CaloriesConsumed > float64(*p.MaxDailyCalories) {
		violations["calorie_ceiling"] = tracker.CaloriesConsumed - float64(*p.MaxDailyCalories)
		return false, "calorie_ceiling", violations, nil
	}
	if ulViolations := models.ValidateDailyUpperLimits(tracker.MicronutrientProfile(), s.resolvedUL); len(ulViolations) > 0 {
		return false, "UL:" + ulViolations[0].Nutrient, violations, ulViolations
	}
	return true, "", nil, nil
}

// weeklyValidation requires every tracked nutrient with positive RDI to reach
// daily_RDI * D across the week.
func (s *searcher) weeklyValidation() bool {
	micro := s.state.weekly.WeeklyTotals.Micronutrients.ToMap()
	for _, name := range sortedTargetNames(s.profile.MicronutrientTargets) {
		dailyRDI := s.profile.MicronutrientTargets[name]
		if dailyRDI <= 0 {
			continue
		}
		if micro[name] < dailyRDI*float64(s.days) {
			return false
		}
	}
	return true
}

// findBacktrackTarget returns the greatest decision-point index before i
// whose cache entry still holds an untried candidate and whose slot is not
// pinned.
func (s *searcher) findBacktrackTarget(i int) (int, bool) {
	for j := i - 1; j >= 0; j-- {
		p := s.order[j]
		if s.isPinned(p) {
			continue
		}
		if entry, ok := s.cache[p]; ok && entry.pointer < len(entry.ordered) {
			return j, true
		}
	}
	return 0, false
}

// unwindTo reverses every non-pinned assignment at decision points >= target
// in reverse lexicographic order, un-completing days as they lose
// assignments, then discards cache entries past the target. The target's own
// pointer already sits one past the just-failed candidate (bumped at apply
// time), so the failed choice is not retried.
func (s *searcher) unwindTo(target int) int {
	s.backtracks++
	tp := s.order[target]

	var toRemove []appliedAssignment
	for _, a := range s.assignments {
		if (a.day > tp.day || (a.day == tp.day && a.slot >= tp.slot)) && !s.isPinned(decisionPoint{day: a.day, slot: a.slot}) {
			toRemove = append(toRemove, a)
		}
	}
	for idx := len(toRemove) - 1; idx >= 0; idx-- {
		s.removeAssignment(toRemove[idx])
	}

	for key := range s.cache {
		if key.day > tp.day || (key.day == tp.day && key.slot > tp.slot) {
			delete(s.cache, key)
		}
	}
	return target
}

// removeAssignment reverse-applies one placement. If the day had been
// completed, its weekly contribution is subtracted before the tracker is
// touched so round-trip identity holds exactly; an emptied day's tracker is
// dropped.
func (s *searcher) removeAssignment(a appliedAssignment) {
	if s.completedDays[a.day] {
		s.uncompleteDay(a.day)
	}
	tracker := s.state.dailyTrackers[a.day]
	removeFromTracker(tracker, a.view, a.isWorkout)
	if tracker.SlotsAssigned == 0 {
		delete(s.state.dailyTrackers, a.day)
	}
	for idx := len(s.assignments) - 1; idx >= 0; idx-- {
		if s.assignments[idx].day == a.day && s.assignments[idx].slot == a.slot {
			s.assignments = append(s.assignments[:idx], s.assignments[idx+1:]...)
			break
		}
	}
}

// blockingConstraints probes, for an unfillable slot, which hard constraints
// remove every recipe from contention.
func (s *searcher) blockingConstraints(p decisionPoint) []string {
	sc := contextFor(s.state.schedule, p.day, p.slot, s.profile.ActivitySchedule)
	seen := make(map[string]bool)
	for i := range s.pool {
		violated := CheckAllHardConstraints(viewOf(&s.pool[i]), sc.slot, p.day, p.slot, s.state, s.profile, s.resolvedUL, sc.isWorkout)
		for _, hc := range violated {
			seen[hc] = true
		}
	}
	var out []string
	for _, hc := range hcIdentifiers {
		if seen[hc] {
			out = append(out, hc)
		}
	}
	return out
}

// attemptLimitResult builds the FM-5 envelope with the best partial plan seen.
func (s *searcher) attemptLimitResult() *models.MealPlanResult {
	best := planSnapshot(s.bestAssignments, s.bestTrackers)
	violations := make(map[string]float64)
	for _, tracker := range s.bestTrackers {
		if tracker.SlotsAssigned != tracker.SlotsTotal {
			continue
		}
		if ok, _, macroViolations, _ := s.dailyValidation(tracker); !ok {
			for k, v := range macroViolations {
				violations[k] = v
			}
		}
	}
	report := &models.FailureReport{
		Attempts:           s.attempts,
		Backtracks:         s.backtracks,
		BestPlan:           best,
		BestPlanViolations: violations,
	}
	return failureResult(models.TerminationLimitExhausted, models.FailureAttemptLimit, report, s.sodiumAdvisory, s.stats())
}

// stats returns the observational metrics when collection is on, else nil.
func (s *searcher) stats() *models.SearchStats {
	if !s.collectStats {
		return nil
	}
	return &models.SearchStats{
		Attempts:         s.attempts,
		Backtracks:       s.backtracks,
		BranchingFactors: s.branching,
		RuntimeSeconds:   time.Since(s.startedAt).Seconds(),
		DayRuntimes:      s.dayRuntimes,
	}
}

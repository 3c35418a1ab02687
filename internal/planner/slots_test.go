package planner

import (
	"math"
	"testing"

	"meal-plan-engine/internal/models"
)

func TestCookingTimeMax(t *testing.T) {
	tests := []struct {
		busyness  int
		wantMax   int
		wantBound bool
	}{
		{1, 5, true},
		{2, 15, true},
		{3, 30, true},
		{4, 0, false},
		{99, 30, true}, // invalid level falls back
	}
	for _, tt := range tests {
		gotMax, gotBound := CookingTimeMax(tt.busyness)
		if gotBound != tt.wantBound || (gotBound && gotMax != tt.wantMax) {
			t.Errorf("CookingTimeMax(%d) = (%d, %v), want (%d, %v)", tt.busyness, gotMax, gotBound, tt.wantMax, tt.wantBound)
		}
	}
}

func TestTimeUntilNextMeal(t *testing.T) {
	daySlots := []models.MealSlot{
		{Time: "08:00", BusynessLevel: 2},
		{Time: "13:00", BusynessLevel: 2},
		{Time: "19:00", BusynessLevel: 2},
	}
	nextFirst := &models.MealSlot{Time: "07:00", BusynessLevel: 2}

	tests := []struct {
		name      string
		slotIndex int
		nextDay   *models.MealSlot
		want      float64
	}{
		{"gap to next slot same day", 0, nextFirst, 5},
		{"last slot wraps to next day", 2, nextFirst, 12},
		{"last slot with no next day", 2, nil, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimeUntilNextMeal(daySlots[tt.slotIndex], tt.slotIndex, daySlots, tt.nextDay)
			if got != tt.want {
				t.Errorf("TimeUntilNextMeal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActivityContext(t *testing.T) {
	daySlots := []models.MealSlot{
		{Time: "08:00", BusynessLevel: 2},
		{Time: "12:00", BusynessLevel: 2},
		{Time: "18:00", BusynessLevel: 2},
	}
	window := &models.WorkoutWindow{WorkoutStart: "09:30", WorkoutEnd: "10:30"}

	tests := []struct {
		name       string
		slotIndex  int
		window     *models.WorkoutWindow
		wantPre    bool
		wantPost   bool
		wantSedent bool
	}{
		{"workout within 2h after slot", 0, window, true, false, false},
		{"workout ended within 3h before slot", 1, window, false, true, false},
		{"no workout near slot", 2, window, false, false, true},
		{"no workout window at all", 1, nil, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ActivityContext(daySlots[tt.slotIndex], tt.slotIndex, daySlots, nil, tt.window)
			if ctx[ContextPreWorkout] != tt.wantPre {
				t.Errorf("pre_workout = %v, want %v", ctx[ContextPreWorkout], tt.wantPre)
			}
			if ctx[ContextPostWorkout] != tt.wantPost {
				t.Errorf("post_workout = %v, want %v", ctx[ContextPostWorkout], tt.wantPost)
			}
			if ctx[ContextSedentary] != tt.wantSedent {
				t.Errorf("sedentary = %v, want %v", ctx[ContextSedentary], tt.wantSedent)
			}
		})
	}
}

func TestActivityContext_OvernightFastAhead(t *testing.T) {
	daySlots := []models.MealSlot{
		{Time: "08:00", BusynessLevel: 2},
		{Time: "19:00", BusynessLevel: 2},
	}
	nextFirst := &models.MealSlot{Time: "08:00", BusynessLevel: 2}

	ctx := ActivityContext(daySlots[0], 0, daySlots, nextFirst, nil)
	if !ctx[ContextOvernightFastAhead] {
		t.Error("11h gap to next slot should set overnight_fast_ahead")
	}

	ctx = ActivityContext(daySlots[1], 1, daySlots, nextFirst, nil)
	if !ctx[ContextOvernightFastAhead] {
		t.Error("13h overnight gap should set overnight_fast_ahead")
	}
}

func TestIsWorkoutSlot(t *testing.T) {
	if IsWorkoutSlot(map[string]bool{ContextSedentary: true}) {
		t.Error("sedentary slot reported as workout")
	}
	if !IsWorkoutSlot(map[string]bool{ContextPreWorkout: true}) {
		t.Error("pre_workout slot not reported as workout")
	}
	if !IsWorkoutSlot(map[string]bool{ContextPostWorkout: true}) {
		t.Error("post_workout slot not reported as workout")
	}
}

func TestSatietyRequirement(t *testing.T) {
	tests := []struct {
		name   string
		hours  float64
		isLast bool
		want   string
	}{
		{"short gap", 3, false, SatietyModerate},
		{"gap over four hours", 4.5, false, SatietyHigh},
		{"last slot long fast", 12, true, SatietyHigh},
		{"last slot short fast", 3, true, SatietyModerate},
		{"exactly four hours", 4, false, SatietyModerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SatietyRequirement(tt.hours, tt.isLast); got != tt.want {
				t.Errorf("SatietyRequirement(%v, %v) = %q, want %q", tt.hours, tt.isLast, got, tt.want)
			}
		})
	}
}

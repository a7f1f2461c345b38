package main

import (
	"testing"
	"time"
)

// mkLog builds a workout log entry for stats tests.
func mkLog(name, category string, sets, reps int, weightKG float64, at time.Time) workoutLog {
	l := workoutLog{ExerciseName: name, Sets: sets, Reps: reps, CreatedAt: &at}
	if category != "" {
		l.Category = &category
	}
	if weightKG > 0 {
		l.WeightKG = &weightKG
	}
	return l
}

func TestComputeWorkoutStats_Empty(t *testing.T) {
	stats := computeWorkoutStats(nil, time.Now())

	if stats.TotalWorkouts != 0 {
		t.Errorf("expected 0 workouts, got %d", stats.TotalWorkouts)
	}
	if stats.PersonalRecords == nil {
		t.Error("expected non-nil personal records map")
	}
	if stats.LastWorkoutDate != nil {
		t.Errorf("expected nil last workout date, got %v", stats.LastWorkoutDate)
	}
}

func TestComputeWorkoutStats_Aggregates(t *testing.T) {
	// Wednesday 2025-06-18; the week starts Monday 2025-06-16.
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)

	logs := []workoutLog{
		mkLog("Squat", "legs", 5, 5, 100, time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)),
		mkLog("Bench Press", "chest", 3, 10, 80, time.Date(2025, 6, 16, 18, 0, 0, 0, time.UTC)),
		mkLog("Bench Press", "chest", 3, 8, 85, time.Date(2025, 6, 17, 18, 0, 0, 0, time.UTC)),
	}

	stats := computeWorkoutStats(logs, now)

	if stats.TotalWorkouts != 3 {
		t.Errorf("expected 3 workouts, got %d", stats.TotalWorkouts)
	}
	if stats.TotalExercises != 2 {
		t.Errorf("expected 2 distinct exercises, got %d", stats.TotalExercises)
	}
	// 5*5*100 + 3*10*80 + 3*8*85 = 2500 + 2400 + 2040
	if stats.TotalVolumeKG != 6940 {
		t.Errorf("expected volume 6940, got %v", stats.TotalVolumeKG)
	}
	// 11 sets over 3 workouts; 79 reps over 11 sets.
	if stats.AverageSetsPerWorkout != 3.67 {
		t.Errorf("expected avg sets 3.67, got %v", stats.AverageSetsPerWorkout)
	}
	if stats.AverageRepsPerSet != 7.18 {
		t.Errorf("expected avg reps 7.18, got %v", stats.AverageRepsPerSet)
	}

	if stats.PersonalRecords["Bench Press"] != 85 {
		t.Errorf("expected bench PR 85, got %v", stats.PersonalRecords["Bench Press"])
	}
	if stats.PersonalRecords["Squat"] != 100 {
		t.Errorf("expected squat PR 100, got %v", stats.PersonalRecords["Squat"])
	}

	if stats.WorkoutsThisWeek != 2 {
		t.Errorf("expected 2 workouts this week, got %d", stats.WorkoutsThisWeek)
	}
	if stats.WorkoutsThisMonth != 3 {
		t.Errorf("expected 3 workouts this month, got %d", stats.WorkoutsThisMonth)
	}

	if stats.MostTrainedExercise == nil || *stats.MostTrainedExercise != "Bench Press" {
		t.Errorf("expected most trained exercise 'Bench Press', got %v", stats.MostTrainedExercise)
	}
	if stats.MostTrainedCategory == nil || *stats.MostTrainedCategory != "chest" {
		t.Errorf("expected most trained category 'chest', got %v", stats.MostTrainedCategory)
	}

	// Jun 16 + Jun 17 are consecutive; Jun 10 stands alone.
	if stats.LongestStreakDays != 2 {
		t.Errorf("expected streak 2, got %d", stats.LongestStreakDays)
	}

	want := time.Date(2025, 6, 17, 18, 0, 0, 0, time.UTC)
	if stats.LastWorkoutDate == nil || !stats.LastWorkoutDate.Equal(want) {
		t.Errorf("expected last workout %v, got %v", want, stats.LastWorkoutDate)
	}
}

func TestComputeWorkoutStats_DurationAndBodyweight(t *testing.T) {
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	dur := 45
	l := mkLog("Plank", "core", 3, 1, 0, now) // bodyweight: no weight logged
	l.DurationMinutes = &dur

	stats := computeWorkoutStats([]workoutLog{l}, now)

	if stats.TotalDurationMinutes != 45 {
		t.Errorf("expected duration 45, got %d", stats.TotalDurationMinutes)
	}
	if stats.TotalVolumeKG != 0 {
		t.Errorf("expected zero volume for bodyweight work, got %v", stats.TotalVolumeKG)
	}
	if _, ok := stats.PersonalRecords["Plank"]; ok {
		t.Error("expected no PR entry for bodyweight exercise")
	}
}

func TestStartOfWeek(t *testing.T) {
	monday := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   time.Time
	}{
		{"wednesday", time.Date(2025, 6, 18, 15, 30, 0, 0, time.UTC)},
		{"sunday", time.Date(2025, 6, 22, 23, 59, 0, 0, time.UTC)},
		{"monday itself", time.Date(2025, 6, 16, 0, 0, 1, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := startOfWeek(tt.in); !got.Equal(monday) {
			t.Errorf("%s: expected %v, got %v", tt.name, monday, got)
		}
	}
}

func TestLongestStreak_CrossesMonthBoundary(t *testing.T) {
	days := map[string]bool{
		"2025-06-29": true,
		"2025-06-30": true,
		"2025-07-01": true,
		"2025-07-03": true,
	}
	if got := longestStreak(days); got != 3 {
		t.Errorf("expected streak 3, got %d", got)
	}
}

func TestMostFrequent_TieBreaksLexicographically(t *testing.T) {
	counts := map[string]int{"bench": 2, "squat": 2, "curl": 1}
	got := mostFrequent(counts)
	if got == nil || *got != "bench" {
		t.Errorf("expected 'bench', got %v", got)
	}

	if mostFrequent(map[string]int{}) != nil {
		t.Error("expected nil for empty map")
	}
}

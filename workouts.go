package main

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// workoutStats is the analytics summary for a user's training history.
// Volume is sets × reps × weight summed over all weighted exercises;
// personal_records maps exercise name → heaviest weight logged.
type workoutStats struct {
	TotalWorkouts         int                `json:"total_workouts"`
	TotalExercises        int                `json:"total_exercises"`
	TotalVolumeKG         float64            `json:"total_volume_kg"`
	TotalDurationMinutes  int                `json:"total_duration_minutes"`
	AverageSetsPerWorkout float64            `json:"average_sets_per_workout"`
	AverageRepsPerSet     float64            `json:"average_reps_per_set"`
	MostTrainedCategory   *string            `json:"most_trained_category"`
	MostTrainedExercise   *string            `json:"most_trained_exercise"`
	PersonalRecords       map[string]float64 `json:"personal_records"`
	WorkoutsThisWeek      int                `json:"workouts_this_week"`
	WorkoutsThisMonth     int                `json:"workouts_this_month"`
	LongestStreakDays     int                `json:"longest_streak_days"`
	LastWorkoutDate       *time.Time         `json:"last_workout_date"`
}

/* ─── Handlers ────────────────────────────────────────────────────────── */

// createWorkoutLog records one logged exercise.
// POST /api/workouts.
func (h *Handler) createWorkoutLog(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createWorkoutLogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.ExerciseName == "" {
		apiError(c, http.StatusBadRequest, "exercise_name is required")
		return
	}
	if body.Sets <= 0 || body.Reps <= 0 {
		apiError(c, http.StatusBadRequest, "sets and reps must be positive")
		return
	}
	if body.WeightKG != nil && *body.WeightKG < 0 {
		apiError(c, http.StatusBadRequest, "weight_kg cannot be negative")
		return
	}

	w, err := queryOne[workoutLog](h.db, c, `
		INSERT INTO workout_logs (user_id, exercise_name, category, sets, reps, weight_kg, duration_minutes, notes)
		VALUES (@userID, @exerciseName, @category, @sets, @reps, @weightKG, @durationMinutes, @notes)
		RETURNING *`,
		pgx.NamedArgs{
			"userID":          userID,
			"exerciseName":    body.ExerciseName,
			"category":        body.Category,
			"sets":            body.Sets,
			"reps":            body.Reps,
			"weightKG":        body.WeightKG,
			"durationMinutes": body.DurationMinutes,
			"notes":           body.Notes,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create workout log")
		return
	}
	c.JSON(http.StatusCreated, w)
}

// listWorkoutLogs returns the user's workout history, newest first.
// GET /api/workouts.
func (h *Handler) listWorkoutLogs(c *gin.Context) {
	userID := c.GetInt("user_id")

	logs, err := queryMany[workoutLog](h.db, c,
		"SELECT * FROM workout_logs WHERE user_id = @userID ORDER BY created_at DESC LIMIT 100",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch workout logs")
		return
	}
	if logs == nil {
		logs = []workoutLog{}
	}
	c.JSON(http.StatusOK, logs)
}

// deleteWorkoutLog removes one workout entry.
// DELETE /api/workouts/:id. Ownership is enforced by requiring both id
// and user_id to match.
func (h *Handler) deleteWorkoutLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM workout_logs WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete workout log")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "Workout log not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout log deleted successfully"})
}

// getWorkoutStats returns training analytics over the full history.
// GET /api/workouts/stats.
func (h *Handler) getWorkoutStats(c *gin.Context) {
	userID := c.GetInt("user_id")

	logs, err := queryMany[workoutLog](h.db, c,
		"SELECT * FROM workout_logs WHERE user_id = @userID ORDER BY created_at",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch workout logs")
		return
	}

	c.JSON(http.StatusOK, computeWorkoutStats(logs, time.Now()))
}

/* ─── Stats computation ───────────────────────────────────────────────── */

// computeWorkoutStats aggregates a workout history into workoutStats.
// Pure function of the logs and the reference time, so it can be tested
// without a database. Logs are expected in created_at order.
func computeWorkoutStats(logs []workoutLog, now time.Time) workoutStats {
	stats := workoutStats{PersonalRecords: map[string]float64{}}
	if len(logs) == 0 {
		return stats
	}

	stats.TotalWorkouts = len(logs)

	exercises := map[string]int{}
	categories := map[string]int{}
	days := map[string]bool{}
	totalSets, totalReps := 0, 0

	weekStart := startOfWeek(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	for _, l := range logs {
		exercises[l.ExerciseName]++
		if l.Category != nil && *l.Category != "" {
			categories[*l.Category]++
		}
		totalSets += l.Sets
		totalReps += l.Sets * l.Reps

		if l.WeightKG != nil {
			stats.TotalVolumeKG += float64(l.Sets*l.Reps) * *l.WeightKG
			if *l.WeightKG > stats.PersonalRecords[l.ExerciseName] {
				stats.PersonalRecords[l.ExerciseName] = *l.WeightKG
			}
		}
		if l.DurationMinutes != nil {
			stats.TotalDurationMinutes += *l.DurationMinutes
		}

		if l.CreatedAt != nil {
			t := l.CreatedAt.In(now.Location())
			days[t.Format("2006-01-02")] = true
			if !t.Before(weekStart) {
				stats.WorkoutsThisWeek++
			}
			if !t.Before(monthStart) {
				stats.WorkoutsThisMonth++
			}
			if stats.LastWorkoutDate == nil || l.CreatedAt.After(*stats.LastWorkoutDate) {
				last := *l.CreatedAt
				stats.LastWorkoutDate = &last
			}
		}
	}

	stats.TotalExercises = len(exercises)
	stats.TotalVolumeKG = round2(stats.TotalVolumeKG)
	stats.AverageSetsPerWorkout = round2(float64(totalSets) / float64(len(logs)))
	if totalSets > 0 {
		stats.AverageRepsPerSet = round2(float64(totalReps) / float64(totalSets))
	}
	stats.MostTrainedCategory = mostFrequent(categories)
	stats.MostTrainedExercise = mostFrequent(exercises)
	stats.LongestStreakDays = longestStreak(days)

	return stats
}

// startOfWeek returns midnight on the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, -offset)
}

// mostFrequent returns the key with the highest count, nil for an empty map.
// Ties break lexicographically so the result is deterministic.
func mostFrequent(counts map[string]int) *string {
	var best *string
	bestCount := 0
	for k, n := range counts {
		if n > bestCount || (n == bestCount && best != nil && k < *best) {
			k := k
			best = &k
			bestCount = n
		}
	}
	return best
}

// longestStreak finds the longest run of consecutive calendar days in a set
// of YYYY-MM-DD day keys.
func longestStreak(days map[string]bool) int {
	longest := 0
	for day := range days {
		start, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		// Only count from the start of a run.
		if days[start.AddDate(0, 0, -1).Format("2006-01-02")] {
			continue
		}
		length := 1
		for days[start.AddDate(0, 0, length).Format("2006-01-02")] {
			length++
		}
		if length > longest {
			longest = length
		}
	}
	return longest
}

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"rh/ai-fitness-go-api/internal/metrics"
)

// createProgressEntry records a body measurement. When the client doesn't
// supply a BMI, it's derived from the profile height and the logged weight.
// POST /api/progress.
func (h *Handler) createProgressEntry(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createProgressEntryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.WeightKG <= 0 {
		apiError(c, http.StatusBadRequest, "weight_kg must be positive")
		return
	}

	bmi := body.BMI
	if bmi == nil {
		var heightCM *float64
		if err := h.db.QueryRow(c,
			"SELECT height_cm FROM users WHERE id = $1", userID).Scan(&heightCM); err == nil && heightCM != nil {
			if v, err := metrics.BMI(*heightCM, body.WeightKG); err == nil {
				bmi = &v
			}
		}
	}

	entry, err := queryOne[progressEntry](h.db, c, `
		INSERT INTO progress_entries (user_id, weight_kg, bmi, body_fat_percentage, muscle_mass_kg, notes)
		VALUES (@userID, @weightKG, @bmi, @bodyFat, @muscleMass, @notes)
		RETURNING *`,
		pgx.NamedArgs{
			"userID":     userID,
			"weightKG":   body.WeightKG,
			"bmi":        bmi,
			"bodyFat":    body.BodyFatPercentage,
			"muscleMass": body.MuscleMassKG,
			"notes":      body.Notes,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create progress entry")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// listProgressEntries returns the user's measurements, newest first.
// GET /api/progress.
func (h *Handler) listProgressEntries(c *gin.Context) {
	userID := c.GetInt("user_id")

	entries, err := queryMany[progressEntry](h.db, c,
		"SELECT * FROM progress_entries WHERE user_id = @userID ORDER BY created_at DESC LIMIT 100",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch progress entries")
		return
	}
	if entries == nil {
		entries = []progressEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// deleteProgressEntry removes one measurement.
// DELETE /api/progress/:id. Ownership is enforced by requiring both id
// and user_id to match.
func (h *Handler) deleteProgressEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM progress_entries WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete progress entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "Progress entry not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Progress entry deleted successfully"})
}

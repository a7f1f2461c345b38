package main

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// createWaterIntake logs a drink.
// POST /api/water. Body: { "amount_ml": int }.
func (h *Handler) createWaterIntake(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createWaterIntakeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.AmountML <= 0 {
		apiError(c, http.StatusBadRequest, "amount_ml must be positive")
		return
	}

	w, err := queryOne[waterIntake](h.db, c, `
		INSERT INTO water_intakes (user_id, amount_ml)
		VALUES (@userID, @amountML)
		RETURNING *`,
		pgx.NamedArgs{"userID": userID, "amountML": body.AmountML})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to log water intake")
		return
	}
	c.JSON(http.StatusCreated, w)
}

// getWaterToday returns today's intake entries and the running total against
// the profile's daily water target.
// GET /api/water/today.
func (h *Handler) getWaterToday(c *gin.Context) {
	userID := c.GetInt("user_id")

	entries, err := queryMany[waterIntake](h.db, c, `
		SELECT * FROM water_intakes
		WHERE user_id = @userID AND created_at::date = CURRENT_DATE
		ORDER BY created_at`,
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch water intakes")
		return
	}
	if entries == nil {
		entries = []waterIntake{}
	}

	totalML := 0
	for _, e := range entries {
		totalML += e.AmountML
	}

	// The profile stores the daily target in liters; accounts that never set
	// a weight fall back to the signup default.
	targetLiters := defaultWaterLiters
	var stored *float64
	if err := h.db.QueryRow(c,
		"SELECT water_intake_l FROM users WHERE id = $1", userID).Scan(&stored); err == nil && stored != nil {
		targetLiters = *stored
	}
	targetML := int(math.Round(targetLiters * 1000))

	remainingML := targetML - totalML
	if remainingML < 0 {
		remainingML = 0
	}
	percent := 0
	if targetML > 0 {
		percent = int(math.Round(float64(totalML) / float64(targetML) * 100))
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":       entries,
		"total_ml":      totalML,
		"target_liters": targetLiters,
		"target_ml":     targetML,
		"remaining_ml":  remainingML,
		"percent":       percent,
	})
}

package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// createMealPlan records a manually entered meal plan (preferences plus
// optional macro targets). AI-generated weekly plans share this table but
// come in through the /api/ai routes.
// POST /api/meals.
func (h *Handler) createMealPlan(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createMealPlanRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	plan, err := queryOne[mealPlan](h.db, c, `
		INSERT INTO meal_plans (user_id, title, goal, diet_style, cuisine, meals_per_day,
		                        cooking_time, budget_level, likes, dislikes, allergies,
		                        language, calories, protein, carbs, fat, water_liters)
		VALUES (@userID, @title, @goal, @dietStyle, @cuisine, @mealsPerDay,
		        @cookingTime, @budgetLevel, @likes, @dislikes, @allergies,
		        @language, @calories, @protein, @carbs, @fat, @waterLiters)
		RETURNING *`,
		pgx.NamedArgs{
			"userID":      userID,
			"title":       body.Title,
			"goal":        body.Goal,
			"dietStyle":   body.DietStyle,
			"cuisine":     body.Cuisine,
			"mealsPerDay": body.MealsPerDay,
			"cookingTime": body.CookingTime,
			"budgetLevel": body.BudgetLevel,
			"likes":       body.Likes,
			"dislikes":    body.Dislikes,
			"allergies":   body.Allergies,
			"language":    body.Language,
			"calories":    body.Calories,
			"protein":     body.Protein,
			"carbs":       body.Carbs,
			"fat":         body.Fat,
			"waterLiters": body.WaterLiters,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create meal plan")
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// listMealPlans returns the user's meal plans, newest first. An optional
// ?date=YYYY-MM-DD query filters to plans created that day.
// GET /api/meals.
func (h *Handler) listMealPlans(c *gin.Context) {
	userID := c.GetInt("user_id")

	query := "SELECT * FROM meal_plans WHERE user_id = @userID"
	args := pgx.NamedArgs{"userID": userID}

	if date := c.Query("date"); date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			apiError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		query += " AND created_at::date = @date"
		args["date"] = date
	}
	query += " ORDER BY created_at DESC"

	plans, err := queryMany[mealPlan](h.db, c, query, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meal plans")
		return
	}
	if plans == nil {
		plans = []mealPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// deleteMealPlan removes one plan.
// DELETE /api/meals/:id. Ownership is enforced by requiring both id and
// user_id to match.
func (h *Handler) deleteMealPlan(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM meal_plans WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete meal plan")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "Meal plan not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meal plan deleted successfully"})
}

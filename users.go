package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"rh/ai-fitness-go-api/internal/metrics"
)

// getUserProfile returns a user's profile including stored derived metrics.
// GET /api/users/:id. Users can read their own profile; admins can read any.
func (h *Handler) getUserProfile(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid user id")
		return
	}
	if id != c.GetInt("user_id") && c.GetString("role") != "admin" {
		apiError(c, http.StatusForbidden, "cannot access another user's profile")
		return
	}

	u, err := queryOne[user](h.db, c,
		"SELECT * FROM users WHERE id = @id", pgx.NamedArgs{"id": id})
	if err != nil {
		apiError(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, u)
}

// updateUserProfile partially updates a profile. Uses pointer fields in the
// request body to distinguish "not provided" from zero — only non-nil fields
// get updated. Any biometric or goal change recomputes BMI, BMR and the
// water target in the same statement, so stale derived metrics are never
// stored alongside fresh biometrics.
// PUT /api/users/:id. Users can update their own profile; admins can update any.
func (h *Handler) updateUserProfile(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid user id")
		return
	}
	if id != c.GetInt("user_id") && c.GetString("role") != "admin" {
		apiError(c, http.StatusForbidden, "cannot update another user's profile")
		return
	}

	var body updateUserRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Sex != nil && !metrics.ValidSex(*body.Sex) {
		apiError(c, http.StatusBadRequest, "sex must be male or female")
		return
	}
	if body.Goal != nil && !metrics.ValidGoal(*body.Goal) {
		apiError(c, http.StatusBadRequest, "goal must be lose, maintain or gain")
		return
	}

	u, err := queryOne[user](h.db, c,
		"SELECT * FROM users WHERE id = @id", pgx.NamedArgs{"id": id})
	if err != nil {
		apiError(c, http.StatusNotFound, "User not found")
		return
	}

	// Build SET clause dynamically — only update fields the client actually sent
	setClauses := []string{}
	args := pgx.NamedArgs{"id": id}

	if body.FirstName != nil {
		setClauses = append(setClauses, "first_name = @firstName")
		args["firstName"] = *body.FirstName
	}
	if body.Email != nil {
		setClauses = append(setClauses, "email = @email")
		args["email"] = *body.Email
	}
	if body.Sex != nil {
		setClauses = append(setClauses, "sex = @sex")
		args["sex"] = *body.Sex
		u.Sex = body.Sex
	}
	if body.Age != nil {
		setClauses = append(setClauses, "age = @age")
		args["age"] = *body.Age
		u.Age = body.Age
	}
	if body.HeightCM != nil {
		setClauses = append(setClauses, "height_cm = @heightCM")
		args["heightCM"] = *body.HeightCM
		u.HeightCM = body.HeightCM
	}
	if body.WeightKG != nil {
		setClauses = append(setClauses, "weight_kg = @weightKG")
		args["weightKG"] = *body.WeightKG
		u.WeightKG = body.WeightKG
	}
	if body.Goal != nil {
		setClauses = append(setClauses, "goal = @goal")
		args["goal"] = *body.Goal
		u.Goal = body.Goal
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	// Recompute derived metrics against the merged profile before writing, so
	// a metrics validation failure leaves the row untouched.
	if body.Sex != nil || body.Age != nil || body.HeightCM != nil || body.WeightKG != nil || body.Goal != nil {
		bmi, bmr, water, err := deriveMetrics(u.Sex, u.Age, u.HeightCM, u.WeightKG, u.Goal)
		if err != nil {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
		setClauses = append(setClauses, "bmi = @bmi", "bmr = @bmr", "water_intake_l = @waterIntakeL")
		args["bmi"] = bmi
		args["bmr"] = bmr
		args["waterIntakeL"] = water
	}

	query := "UPDATE users SET " + strings.Join(setClauses, ", ") +
		", updated_at = now() WHERE id = @id RETURNING *"

	updated, err := queryOne[user](h.db, c, query, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update user")
		return
	}
	c.JSON(http.StatusOK, updated)
}

/* ─── Admin ───────────────────────────────────────────────────────────── */

// listUsers returns every account for the admin panel.
// GET /api/admin/users (admin only).
func (h *Handler) listUsers(c *gin.Context) {
	users, err := queryMany[user](h.db, c,
		"SELECT * FROM users ORDER BY id", pgx.NamedArgs{})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// setUserStatus activates or deactivates an account. Deactivated accounts
// cannot log in.
// PUT /api/admin/users/:id/status (admin only). Body: { "active": bool }.
func (h *Handler) setUserStatus(c *gin.Context) {
	id := c.Param("id")

	var body struct {
		Active *bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	active := true
	if body.Active != nil {
		active = *body.Active
	}

	u, err := queryOne[user](h.db, c,
		"UPDATE users SET active = @active, updated_at = now() WHERE id = @id RETURNING *",
		pgx.NamedArgs{"active": active, "id": id})
	if err != nil {
		apiError(c, http.StatusNotFound, "User not found")
		return
	}

	state := "deactivated"
	if u.Active {
		state = "activated"
	}
	c.JSON(http.StatusOK, gin.H{"message": "User " + u.FirstName + " has been " + state})
}

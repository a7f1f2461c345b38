package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

/* ─── Prompt constants ───────────────────────────────────────────────── */

// defaultWorkoutPlanModel is cheaper than the meal model; the workout JSON
// is smaller and less nuanced.
const defaultWorkoutPlanModel = "gpt-4.1-mini"

const (
	workoutPlanTemperature = 0.8
	workoutPlanMaxTokens   = 3500
)

const workoutSystemPrompt = `You are a professional fitness coach for a mobile app.
You MUST respond with valid JSON only, no extra text.

JSON format:
{
  "meta": {
    "split": "push_pull_legs | full_body | upper_lower | bro_split",
    "days_per_week": number,
    "experience": "beginner | intermediate | advanced",
    "focus": "strength | muscle_gain | fat_loss | athletic | general_fitness",
    "equipment": "gym | home | both",
    "language": "en | ar"
  },
  "weeks": [
    {
      "week_number": 1,
      "goal_focus": "string",
      "days": [
        {
          "label": "Day 1 - Push",
          "focus": "Chest, shoulders, triceps",
          "exercises": [
            {
              "name": "Bench Press",
              "sets": "4",
              "reps": "6-8",
              "rest": "90 sec",
              "notes": "Keep shoulder blades tight."
            }
          ],
          "notes": [
            "Warm up 5-10 minutes before starting.",
            "Focus on good form over heavy weight."
          ]
        }
      ]
    }
  ]
}

Rules:
- Always generate exactly 4 weeks (week_number = 1, 2, 3, 4).
- For each week, generate exactly meta.days_per_week training days.
- You may mention rest days only in notes, not as separate days.
- Adapt difficulty, volume, and exercise selection to experience level.
- Full-body / PPL / upper-lower / bro split must be consistent across all weeks.
- Focus:
  - strength       -> lower reps, heavier sets, core compounds.
  - muscle_gain    -> 8-12 reps, moderate volume.
  - fat_loss       -> full-body circuits, shorter rest, some cardio.
  - athletic       -> explosive work, agility, mixed strength/cardio.
  - general_fitness-> balanced mix of strength and conditioning.
- Use simple names for exercises that are easy to understand.`

const workoutLanguageRule = `If language is "ar":
- Write all labels, focus, notes, and exercise descriptions in Modern Standard Arabic.
- You may keep international exercise names partially in English + Arabic, e.g., "Bench Press (ضغط صدر)".
If language is "en":
- Write everything in clear, simple English.`

const workoutUserPromptTemplate = `User profile:
- ID: %d
- Name: %s
- Age: %s
- Sex: %s
- Height: %s cm
- Weight: %s kg
- Goal: %s

Workout preferences:
- Experience level: %s
- Days per week: %d
- Split style: %s
- Equipment: %s
- Focus: %s
- Injuries or limitations: %s
- Output language: %s

%s

Generate a structured 4-week plan in the EXACT JSON format specified in the system message.
Do not include any explanation outside the JSON.`

/* ─── Input resolution ───────────────────────────────────────────────── */

// workoutPlanInputs are the fully defaulted generation inputs.
type workoutPlanInputs struct {
	Experience  string // beginner | intermediate | advanced
	DaysPerWeek int    // 2..7
	Split       string
	Equipment   string
	Focus       string
	Injuries    string
	Language    string // en | ar
}

// resolveWorkoutPlanInputs applies the screen's defaults and validates the
// few fields with a fixed vocabulary.
func resolveWorkoutPlanInputs(prefs workoutPreferences) (workoutPlanInputs, error) {
	in := workoutPlanInputs{
		Experience:  orDefault(prefs.Experience, "beginner"),
		DaysPerWeek: prefs.DaysPerWeek,
		Split:       orDefault(prefs.Split, "push_pull_legs"),
		Equipment:   orDefault(prefs.Equipment, "gym"),
		Focus:       orDefault(prefs.Focus, "muscle_gain"),
		Injuries:    strPtrOr(prefs.Injuries, "none"),
		Language:    strPtrOr(prefs.Language, "en"),
	}
	if in.DaysPerWeek == 0 {
		in.DaysPerWeek = 4
	}

	switch in.Experience {
	case "beginner", "intermediate", "advanced":
	default:
		return in, fmt.Errorf("experience must be beginner, intermediate or advanced")
	}
	if in.DaysPerWeek < 2 || in.DaysPerWeek > 7 {
		return in, fmt.Errorf("days_per_week must be between 2 and 7")
	}
	switch in.Language {
	case "en", "ar":
	default:
		return in, fmt.Errorf("language must be en or ar")
	}
	return in, nil
}

// buildWorkoutPlanPrompts renders the system and user prompts.
func buildWorkoutPlanPrompts(u user, in workoutPlanInputs) (system, userPrompt string) {
	langLabel := "English"
	if in.Language == "ar" {
		langLabel = "Arabic"
	}
	userPrompt = fmt.Sprintf(workoutUserPromptTemplate,
		u.ID, u.FirstName,
		fmtIntField(u.Age), fmtStrField(u.Sex), fmtFloatField(u.HeightCM), fmtFloatField(u.WeightKG),
		fmtStrField(u.Goal),
		in.Experience, in.DaysPerWeek, in.Split, in.Equipment, in.Focus,
		in.Injuries, langLabel, workoutLanguageRule)
	return workoutSystemPrompt, userPrompt
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// generateWorkoutPlan builds a 4-week workout plan with OpenAI. A user gets
// one plan only; repeat requests are rejected.
// POST /api/ai/workout-plan/monthly.
func (h *Handler) generateWorkoutPlan(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body aiWorkoutPlanRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := queryOne[user](h.db, c,
		"SELECT * FROM users WHERE id = @id", pgx.NamedArgs{"id": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "User not found")
		return
	}

	var hasPlan bool
	if err := h.db.QueryRow(c,
		"SELECT EXISTS (SELECT 1 FROM workout_plans WHERE user_id = $1)", u.ID).Scan(&hasPlan); err != nil {
		apiError(c, http.StatusInternalServerError, "Failed to generate AI workout plan")
		return
	}
	if hasPlan {
		apiError(c, http.StatusBadRequest, "You already generated a workout plan. Only one plan is allowed.")
		return
	}

	in, err := resolveWorkoutPlanInputs(body.Prefs)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	system, userPrompt := buildWorkoutPlanPrompts(u, in)
	content, err := h.callOpenAI(c.Request.Context(), defaultWorkoutPlanModel,
		workoutPlanTemperature, workoutPlanMaxTokens, []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: userPrompt},
		})
	if err != nil {
		log.Printf("[workoutPlan] OpenAI error: %v", err)
		apiError(c, http.StatusInternalServerError, "Failed to generate AI workout plan")
		return
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		apiError(c, http.StatusBadRequest, "AI did not return valid JSON for workout plan.")
		return
	}

	// The plan is still useful without the row, so a save failure is logged
	// and the response goes out anyway.
	if err := h.saveWorkoutPlan(c, u.ID, in, data); err != nil {
		log.Printf("[workoutPlan] failed to save plan for user %d: %v", u.ID, err)
	}

	c.JSON(http.StatusOK, data)
}

// saveWorkoutPlan stores the generated plan, preferring the meta block the
// model echoed back over the raw request inputs.
func (h *Handler) saveWorkoutPlan(c *gin.Context, userID int, in workoutPlanInputs, data map[string]interface{}) error {
	planJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}

	meta, _ := data["meta"].(map[string]interface{})
	_, err = h.db.Exec(c, `
		INSERT INTO workout_plans (user_id, split, days_per_week, experience, goal_focus, language, plan_json)
		VALUES (@userID, @split, @daysPerWeek, @experience, @goalFocus, @language, @planJSON)`,
		pgx.NamedArgs{
			"userID":      userID,
			"split":       strField(meta, "split", in.Split),
			"daysPerWeek": intField(meta, "days_per_week", in.DaysPerWeek),
			"experience":  strField(meta, "experience", in.Experience),
			"goalFocus":   strField(meta, "focus", in.Focus),
			"language":    strField(meta, "language", in.Language),
			"planJSON":    string(planJSON),
		})
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

// getLatestWorkoutPlan returns the user's generated plan document.
// GET /api/ai/workout-plan/latest.
func (h *Handler) getLatestWorkoutPlan(c *gin.Context) {
	userID := c.GetInt("user_id")

	var planJSON []byte
	err := h.db.QueryRow(c, `
		SELECT plan_json FROM workout_plans
		WHERE user_id = $1 AND plan_json IS NOT NULL
		ORDER BY created_at DESC
		LIMIT 1`, userID).Scan(&planJSON)
	if err != nil {
		apiError(c, http.StatusNotFound, "No workout plan found")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", planJSON)
}

/* ─── JSON field helpers ─────────────────────────────────────────────── */

// strField reads a string field from decoded JSON with a fallback.
func strField(m map[string]interface{}, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// intField reads an integer field from decoded JSON with a fallback.
func intField(m map[string]interface{}, key string, fallback int) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return fallback
}

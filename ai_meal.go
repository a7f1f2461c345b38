package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"rh/ai-fitness-go-api/internal/metrics"
)

/* ─── Prompt constants ───────────────────────────────────────────────── */

// mealPlanPromptVersion is stamped into every generated plan so old plans
// can be told apart after a prompt change.
const mealPlanPromptVersion = "v2.0-mealplan-options-json"

// defaultMealPlanModel is used when the request doesn't pick a model.
const defaultMealPlanModel = "gpt-4.1"

// mealPlanTemperature trades some determinism for meal variety.
const mealPlanTemperature = 0.7

// mealSystemPromptTemplate pins the exact JSON structure the app's meal
// planning screen renders. Placeholders: day-label rule, language rule.
const mealSystemPromptTemplate = `You are a professional sports nutrition coach for a fitness app.
Return VALID JSON ONLY. No markdown. No extra text.

You MUST return this exact JSON shape:

{
  "meta": {
    "language": "en|ar",
    "created_at": "ISO-8601 string",
    "model": "string",
    "prompt_version": "string",
    "disclaimer": "string"
  },
  "daily_targets": {
    "calories": number,
    "protein": number,
    "carbs": number,
    "fat": number,
    "water_liters": number
  },
  "week": [
    {
      "day": "string",
      "why_this_day_works": "string",
      "meals": {
        "breakfast": [MealOption, MealOption],
        "lunch": [MealOption, MealOption],
        "dinner": [MealOption, MealOption],
        "snacks": [MealOption, MealOption]
      },
      "totals": {
        "calories": number,
        "protein_g": number,
        "carbs_g": number,
        "fat_g": number
      },
      "tips": ["string", "string"]
    }
  ],
  "grocery_list": {
    "proteins": ["..."],
    "carbs": ["..."],
    "vegetables_fruits": ["..."],
    "dairy": ["..."],
    "fats": ["..."],
    "extras": ["..."]
  },
  "meal_prep_plan": ["string", "string"]
}

MealOption shape:
{
  "title": "string",
  "ingredients": ["string", "..."],
  "portions": "string",
  "steps": ["string", "..."],
  "macros": {
    "calories": number,
    "protein_g": number,
    "carbs_g": number,
    "fat_g": number
  },
  "swaps": ["string", "..."]
}

Hard Rules:
- week MUST have EXACTLY 7 days.
- For each day:
  - breakfast/lunch/dinner/snacks MUST each include 2 options (2 MealOption objects).
- Make meals realistic and available in normal groceries.
- Respect dislikes and allergies strictly (avoid them completely).
- Strongly prefer liked foods when possible.
- Diabetes true => prioritize low-GI carbs, avoid sugar drinks/desserts, spread carbs.
- Obesity true => calorie control, high protein, high fiber, portion control.
- cooking_time rule:
  - quick: steps should be short, total cook time <= 20 minutes.
  - medium: <= 35 minutes.
  - advanced: <= 60 minutes (still practical).
- budget_level rule:
  - low: prefer cheaper protein (eggs, tuna, chicken, legumes).
  - high: can include more salmon/steak etc.
- Water liters typically between 2.0 and 3.5 (adjust to body size and goal).
- %s
- %s`

// mealUserPromptTemplate carries the profile, health flags and screen inputs.
const mealUserPromptTemplate = `User Profile:
- id: %d
- name: %s
- sex: %s
- age: %s
- height_cm: %s
- weight_kg: %s
- goal: %s
- bmi: %s
- bmr: %s
- recommended_water_liters: %s
- suggested_daily_targets: %s

Health Flags:
- diabetes: %t
- obesity: %t

Meal Plan Inputs (from app screen):
- language: %s
- meals_per_day: %d
- cooking_time: %s
- budget_level: %s
- diet_style: %s
- cuisine: %s
- allergies/intolerances: %s
- liked_foods: %s
- disliked_foods: %s

Generate the plan NOW.
Meta requirements:
- meta.language = "%s"
- meta.created_at = current ISO-8601 time
- meta.model = "%s"
- meta.prompt_version = "%s"
- meta.disclaimer = "%s"`

const (
	mealDisclaimerEN = "This plan is general guidance, not medical advice. Consult a professional if you have a condition."
	mealDisclaimerAR = "هذه الخطة للاسترشاد العام وليست نصيحة طبية. استشر مختصاً إذا لديك حالة صحية."

	mealLangRuleEN = "Write everything in clear simple English."
	mealLangRuleAR = "اكتب كل شيء باللغة العربية الفصحى (بدون عربليزي). اكتب أسماء الوجبات والشرح والنصائح باللغة العربية."

	mealDayNamesEN = "Use English day labels: Monday...Sunday"
	mealDayNamesAR = "Use Arabic day labels مثل: الاثنين، الثلاثاء..."
)

/* ─── Input resolution ───────────────────────────────────────────────── */

// mealPlanInputs are the fully defaulted generation inputs. Resolution is
// kept separate from the handler so prompt construction can be tested
// without a database or an OpenAI key.
type mealPlanInputs struct {
	Goal        string
	DietStyle   string
	Cuisine     string
	MealsPerDay int
	CookingTime string // quick | medium | advanced
	BudgetLevel string // low | medium | high
	Liked       string
	Disliked    string
	Allergies   string
	Language    string // en | ar
	Model       string
	Diabetes    bool
	Obesity     bool
}

// resolveMealPlanInputs applies the request's preferences over the user's
// stored profile with the screen's defaults.
func resolveMealPlanInputs(u user, req aiMealPlanRequest) mealPlanInputs {
	prefs := req.Preferences
	if prefs == nil {
		prefs = &mealPlanPreferences{}
	}

	in := mealPlanInputs{
		DietStyle:   strings.TrimSpace(strPtrOr(prefs.DietStyle, "")),
		Cuisine:     strings.TrimSpace(strPtrOr(prefs.Cuisine, "")),
		MealsPerDay: intPtrOr(prefs.MealsPerDay, 4),
		CookingTime: strings.ToLower(strings.TrimSpace(strPtrOr(prefs.CookingTime, "quick"))),
		BudgetLevel: strings.ToLower(strings.TrimSpace(strPtrOr(prefs.BudgetLevel, "medium"))),
		Liked:       normalizeCSV(strPtrOr(prefs.LikedFoods, "")),
		Disliked:    normalizeCSV(strPtrOr(prefs.DislikedFoods, "")),
		Allergies:   strings.TrimSpace(strPtrOr(prefs.Allergies, "")),
		Language:    strings.ToLower(strPtrOr(req.Language, "en")),
		Model:       strPtrOr(req.Model, defaultMealPlanModel),
	}
	// Goal from the screen wins over the profile goal.
	in.Goal = strings.TrimSpace(strPtrOr(prefs.Goal, strPtrOr(u.Goal, "")))
	if req.Flags != nil {
		in.Diabetes = req.Flags.Diabetes
		in.Obesity = req.Flags.Obesity
	}
	return in
}

// buildMealPlanPrompts renders the system and user prompts for one request.
func buildMealPlanPrompts(u user, in mealPlanInputs) (system, userPrompt string) {
	langRule, disclaimer, dayNames := mealLangRuleEN, mealDisclaimerEN, mealDayNamesEN
	if in.Language == "ar" {
		langRule, disclaimer, dayNames = mealLangRuleAR, mealDisclaimerAR, mealDayNamesAR
	}

	system = fmt.Sprintf(mealSystemPromptTemplate, dayNames, langRule)
	userPrompt = fmt.Sprintf(mealUserPromptTemplate,
		u.ID, u.FirstName,
		fmtStrField(u.Sex), fmtIntField(u.Age), fmtFloatField(u.HeightCM), fmtFloatField(u.WeightKG),
		orNone(in.Goal),
		fmtFloatField(u.BMI), fmtFloatField(u.BMR), fmtFloatField(u.WaterIntakeL),
		suggestedTargets(u),
		in.Diabetes, in.Obesity,
		in.Language, in.MealsPerDay, in.CookingTime, in.BudgetLevel,
		orNone(in.DietStyle), orDefault(in.Cuisine, "no preference"),
		orNone(in.Allergies), orNone(in.Liked), orNone(in.Disliked),
		in.Language, in.Model, mealPlanPromptVersion, disclaimer)
	return system, userPrompt
}

// suggestedTargets renders the derived calorie/macro targets for the prompt,
// based on the stored (already validated) profile goal. Profiles without a
// BMR get "unknown" and the model estimates targets itself.
func suggestedTargets(u user) string {
	if u.BMR == nil {
		return "unknown"
	}
	t, err := metrics.DailyTargets(*u.BMR, strPtrOr(u.Goal, ""))
	if err != nil {
		return "unknown"
	}
	return fmt.Sprintf("%d kcal, protein %d g, carbs %d g, fat %d g",
		t.Calories, t.ProteinG, t.CarbsG, t.FatG)
}

// mealPlanDisclaimer returns the language-matched disclaimer for backfill.
func mealPlanDisclaimer(language string) string {
	if language == "ar" {
		return mealDisclaimerAR
	}
	return mealDisclaimerEN
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// generateMealPlan builds a 7-day meal plan with OpenAI from the user's
// profile, health flags and screen preferences, deactivates any previous
// plans and stores the new one active.
// POST /api/ai/meal-plan/weekly.
func (h *Handler) generateMealPlan(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body aiMealPlanRequest
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

	in := resolveMealPlanInputs(u, body)
	system, userPrompt := buildMealPlanPrompts(u, in)

	content, err := h.callOpenAI(c.Request.Context(), in.Model, mealPlanTemperature, 0, []openAIMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: userPrompt},
	})
	if err != nil {
		log.Printf("[mealPlan] OpenAI error: %v", err)
		apiError(c, http.StatusInternalServerError, "Failed to generate AI meal plan")
		return
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		log.Printf("[mealPlan] Failed to parse OpenAI response: %v", err)
		apiError(c, http.StatusInternalServerError, "Failed to generate AI meal plan")
		return
	}

	// Ensure meta exists (in case the model forgets).
	meta, ok := data["meta"].(map[string]interface{})
	if !ok {
		meta = map[string]interface{}{}
		data["meta"] = meta
	}
	setDefault(meta, "language", in.Language)
	setDefault(meta, "created_at", time.Now().UTC().Format(time.RFC3339))
	setDefault(meta, "model", in.Model)
	setDefault(meta, "prompt_version", mealPlanPromptVersion)
	setDefault(meta, "disclaimer", mealPlanDisclaimer(in.Language))

	if err := h.saveMealPlan(c, u, in, data); err != nil {
		log.Printf("[mealPlan] failed to save plan for user %d: %v", u.ID, err)
		apiError(c, http.StatusInternalServerError, "Failed to generate AI meal plan")
		return
	}

	c.JSON(http.StatusOK, data)
}

// saveMealPlan marks the user's older plans inactive, then inserts the new
// plan with its daily targets broken out into columns.
func (h *Handler) saveMealPlan(c *gin.Context, u user, in mealPlanInputs, data map[string]interface{}) error {
	planJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	flagsJSON, err := json.Marshal(medicalFlags{Diabetes: in.Diabetes, Obesity: in.Obesity})
	if err != nil {
		return fmt.Errorf("marshal flags: %w", err)
	}

	if _, err := h.db.Exec(c,
		"UPDATE meal_plans SET is_active = FALSE, updated_at = now() WHERE user_id = $1", u.ID); err != nil {
		return fmt.Errorf("deactivate old plans: %w", err)
	}

	daily, _ := data["daily_targets"].(map[string]interface{})
	_, err = h.db.Exec(c, `
		INSERT INTO meal_plans (user_id, goal, diet_style, cuisine, meals_per_day, cooking_time,
		                        budget_level, likes, dislikes, allergies, medical_flags, language,
		                        plan_duration_days, calories, protein, carbs, fat, water_liters,
		                        plan_json, prompt_version, model, is_active, version)
		VALUES (@userID, @goal, @dietStyle, @cuisine, @mealsPerDay, @cookingTime,
		        @budgetLevel, @likes, @dislikes, @allergies, @medicalFlags, @language,
		        7, @calories, @protein, @carbs, @fat, @waterLiters,
		        @planJSON, @promptVersion, @model, TRUE, 1)`,
		pgx.NamedArgs{
			"userID":        u.ID,
			"goal":          nullIfEmpty(in.Goal),
			"dietStyle":     nullIfEmpty(in.DietStyle),
			"cuisine":       nullIfEmpty(in.Cuisine),
			"mealsPerDay":   in.MealsPerDay,
			"cookingTime":   in.CookingTime,
			"budgetLevel":   in.BudgetLevel,
			"likes":         nullIfEmpty(in.Liked),
			"dislikes":      nullIfEmpty(in.Disliked),
			"allergies":     nullIfEmpty(in.Allergies),
			"medicalFlags":  string(flagsJSON),
			"language":      in.Language,
			"calories":      numField(daily, "calories"),
			"protein":       numField(daily, "protein"),
			"carbs":         numField(daily, "carbs"),
			"fat":           numField(daily, "fat"),
			"waterLiters":   numField(daily, "water_liters"),
			"planJSON":      string(planJSON),
			"promptVersion": mealPlanPromptVersion,
			"model":         in.Model,
		})
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

// getLatestMealPlan returns the most recent generated plan document.
// GET /api/ai/meal-plan/weekly/latest.
func (h *Handler) getLatestMealPlan(c *gin.Context) {
	userID := c.GetInt("user_id")

	var planJSON []byte
	err := h.db.QueryRow(c, `
		SELECT plan_json FROM meal_plans
		WHERE user_id = $1 AND plan_json IS NOT NULL
		ORDER BY created_at DESC
		LIMIT 1`, userID).Scan(&planJSON)
	if err != nil {
		apiError(c, http.StatusNotFound, "No meal plan found")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", planJSON)
}

/* ─── Formatting helpers ─────────────────────────────────────────────── */

// normalizeCSV tidies a comma-separated list: trims each item, drops empties.
func normalizeCSV(value string) string {
	parts := strings.Split(value, ",")
	kept := parts[:0]
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, ", ")
}

func strPtrOr(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}

func intPtrOr(p *int, fallback int) int {
	if p == nil || *p == 0 {
		return fallback
	}
	return *p
}

func orNone(s string) string {
	return orDefault(s, "none")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// fmtStrField, fmtIntField and fmtFloatField render nullable profile fields
// for prompts, showing "unknown" for data the user never provided.
func fmtStrField(p *string) string {
	if p == nil || *p == "" {
		return "unknown"
	}
	return *p
}

func fmtIntField(p *int) string {
	if p == nil {
		return "unknown"
	}
	return strconv.Itoa(*p)
}

func fmtFloatField(p *float64) string {
	if p == nil {
		return "unknown"
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

// nullIfEmpty maps "" to NULL for optional text columns.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// setDefault fills a key only when absent, like dict.setdefault.
func setDefault(m map[string]interface{}, key string, value interface{}) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}

// numField reads a numeric field from decoded JSON, defaulting to 0.
func numField(m map[string]interface{}, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}

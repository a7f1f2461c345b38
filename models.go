package main

import (
	"encoding/json"
	"time"
)

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. Password and the verification/reset token
// columns are hidden from JSON responses. Biometric fields are nullable —
// a fresh signup may carry nothing but a name and password; bmi/bmr/
// water_intake_l are recomputed from the biometrics on every profile write.
type user struct {
	ID        int      `json:"id" db:"id"`
	FirstName string   `json:"first_name" db:"first_name"`
	Password  string   `json:"-" db:"password"`
	Sex       *string  `json:"sex" db:"sex"`
	Age       *int     `json:"age" db:"age"`
	HeightCM  *float64 `json:"height_cm" db:"height_cm"`
	WeightKG  *float64 `json:"weight_kg" db:"weight_kg"`
	Goal      *string  `json:"goal" db:"goal"`

	BMI          *float64 `json:"bmi" db:"bmi"`
	BMR          *float64 `json:"bmr" db:"bmr"`
	WaterIntakeL *float64 `json:"water_intake_l" db:"water_intake_l"`

	Role                   string     `json:"role" db:"role"`
	Email                  *string    `json:"email" db:"email"`
	EmailVerified          bool       `json:"email_verified" db:"email_verified"`
	EmailVerificationToken *string    `json:"-" db:"email_verification_token"`
	PasswordResetToken     *string    `json:"-" db:"password_reset_token"`
	PasswordResetExpires   *time.Time `json:"-" db:"password_reset_expires"`

	Active    bool       `json:"active" db:"active"`
	LastLogin *time.Time `json:"last_login" db:"last_login"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// supplement maps to the supplements table. ImageURLs holds the gallery
// images as a JSONB array; ImageURL is the primary catalog image.
type supplement struct {
	ID          int      `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	Description *string  `json:"description" db:"description"`
	Price       float64  `json:"price" db:"price"`
	ImageURL    *string  `json:"image_url" db:"image_url"`
	ImageURLs   []string `json:"image_urls" db:"image_urls"`
}

// favorite maps to the favorites table (unique per user+supplement).
type favorite struct {
	ID           int        `json:"id" db:"id"`
	UserID       int        `json:"user_id" db:"user_id"`
	SupplementID int        `json:"supplement_id" db:"supplement_id"`
	CreatedAt    *time.Time `json:"created_at" db:"created_at"`
}

// workoutLog maps to the workout_logs table.
type workoutLog struct {
	ID              int        `json:"id" db:"id"`
	UserID          int        `json:"user_id" db:"user_id"`
	ExerciseName    string     `json:"exercise_name" db:"exercise_name"`
	Category        *string    `json:"category" db:"category"`
	Sets            int        `json:"sets" db:"sets"`
	Reps            int        `json:"reps" db:"reps"`
	WeightKG        *float64   `json:"weight_kg" db:"weight_kg"`
	DurationMinutes *int       `json:"duration_minutes" db:"duration_minutes"`
	Notes           *string    `json:"notes" db:"notes"`
	CreatedAt       *time.Time `json:"created_at" db:"created_at"`
}

// progressEntry maps to the progress_entries table. BMI is derived from the
// profile height at insert time when the client doesn't supply one.
type progressEntry struct {
	ID                int        `json:"id" db:"id"`
	UserID            int        `json:"user_id" db:"user_id"`
	WeightKG          float64    `json:"weight_kg" db:"weight_kg"`
	BMI               *float64   `json:"bmi" db:"bmi"`
	BodyFatPercentage *float64   `json:"body_fat_percentage" db:"body_fat_percentage"`
	MuscleMassKG      *float64   `json:"muscle_mass_kg" db:"muscle_mass_kg"`
	Notes             *string    `json:"notes" db:"notes"`
	CreatedAt         *time.Time `json:"created_at" db:"created_at"`
}

// waterIntake maps to the water_intakes table.
type waterIntake struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	AmountML  int        `json:"amount_ml" db:"amount_ml"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// notification maps to the notifications table — the delivery feed reminder
// triggers land in. Status moves pending → read.
type notification struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	Message   string     `json:"message" db:"message"`
	Status    string     `json:"status" db:"status"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// medicalFlags are the health conditions the AI meal planner must respect.
type medicalFlags struct {
	Diabetes bool `json:"diabetes"`
	Obesity  bool `json:"obesity"`
}

// mealPlan maps to the meal_plans table. Manual plans fill the preference
// and target columns; AI-generated weekly plans additionally store the full
// plan document in PlanJSON with exactly one active plan per user.
type mealPlan struct {
	ID               int             `json:"id" db:"id"`
	UserID           int             `json:"user_id" db:"user_id"`
	Title            *string         `json:"title" db:"title"`
	Goal             *string         `json:"goal" db:"goal"`
	DietStyle        *string         `json:"diet_style" db:"diet_style"`
	Cuisine          *string         `json:"cuisine" db:"cuisine"`
	MealsPerDay      *int            `json:"meals_per_day" db:"meals_per_day"`
	CookingTime      *string         `json:"cooking_time" db:"cooking_time"`
	BudgetLevel      *string         `json:"budget_level" db:"budget_level"`
	Likes            *string         `json:"likes" db:"likes"`
	Dislikes         *string         `json:"dislikes" db:"dislikes"`
	Allergies        *string         `json:"allergies" db:"allergies"`
	MedicalFlags     *medicalFlags   `json:"medical_flags" db:"medical_flags"`
	Language         *string         `json:"language" db:"language"`
	PlanDurationDays int             `json:"plan_duration_days" db:"plan_duration_days"`
	Calories         *float64        `json:"calories" db:"calories"`
	Protein          *float64        `json:"protein" db:"protein"`
	Carbs            *float64        `json:"carbs" db:"carbs"`
	Fat              *float64        `json:"fat" db:"fat"`
	WaterLiters      *float64        `json:"water_liters" db:"water_liters"`
	PlanJSON         json.RawMessage `json:"plan_json,omitempty" db:"plan_json"`
	Version          int             `json:"version" db:"version"`
	IsActive         bool            `json:"is_active" db:"is_active"`
	PromptVersion    *string         `json:"prompt_version" db:"prompt_version"`
	Model            *string         `json:"model" db:"model"`
	CreatedAt        *time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        *time.Time      `json:"updated_at" db:"updated_at"`
}

// workoutPlan maps to the workout_plans table (AI monthly plans).
type workoutPlan struct {
	ID          int             `json:"id" db:"id"`
	UserID      int             `json:"user_id" db:"user_id"`
	Split       *string         `json:"split" db:"split"`
	DaysPerWeek *int            `json:"days_per_week" db:"days_per_week"`
	Experience  *string         `json:"experience" db:"experience"`
	GoalFocus   *string         `json:"goal_focus" db:"goal_focus"`
	Language    *string         `json:"language" db:"language"`
	PlanJSON    json.RawMessage `json:"plan_json,omitempty" db:"plan_json"`
	CreatedAt   *time.Time      `json:"created_at" db:"created_at"`
}

// reminderSettingsRow maps to the reminder_settings table: one row per
// (user, type) holding the config columns plus the persisted trigger-id
// registry for the scheduler.
type reminderSettingsRow struct {
	UserID            int        `json:"-" db:"user_id"`
	Type              string     `json:"type" db:"type"`
	Enabled           bool       `json:"enabled" db:"enabled"`
	AtHour            int        `json:"at_hour" db:"at_hour"`
	AtMinute          int        `json:"at_minute" db:"at_minute"`
	IntervalMinutes   int        `json:"interval_minutes" db:"interval_minutes"`
	WindowStartHour   int        `json:"window_start_hour" db:"window_start_hour"`
	WindowStartMinute int        `json:"window_start_minute" db:"window_start_minute"`
	WindowEndHour     int        `json:"window_end_hour" db:"window_end_hour"`
	WindowEndMinute   int        `json:"window_end_minute" db:"window_end_minute"`
	TriggerIDs        []string   `json:"trigger_ids" db:"trigger_ids"`
	UpdatedAt         *time.Time `json:"updated_at" db:"updated_at"`
}

/* ─── Request bodies ─────────────────────────────────────────────────── */

// signupRequest is the body for POST /api/signup. Biometric fields are
// optional; derived metrics are computed from whatever is present.
type signupRequest struct {
	FirstName string   `json:"first_name"`
	Password  string   `json:"password"`
	Email     *string  `json:"email"`
	Sex       *string  `json:"sex"`
	Age       *int     `json:"age"`
	HeightCM  *float64 `json:"height_cm"`
	WeightKG  *float64 `json:"weight_kg"`
	Goal      *string  `json:"goal"`
}

// loginRequest is the body for POST /api/login.
type loginRequest struct {
	FirstName string `json:"first_name"`
	Password  string `json:"password"`
}

// updateUserRequest is the body for PUT /api/users/:id. All fields are
// pointers — only non-nil fields get written, and any biometric or goal
// change triggers a synchronous metrics recompute.
type updateUserRequest struct {
	FirstName *string  `json:"first_name"`
	Email     *string  `json:"email"`
	Sex       *string  `json:"sex"`
	Age       *int     `json:"age"`
	HeightCM  *float64 `json:"height_cm"`
	WeightKG  *float64 `json:"weight_kg"`
	Goal      *string  `json:"goal"`
}

// verifyEmailRequest is the body for POST /api/verify-email.
type verifyEmailRequest struct {
	Token string `json:"token"`
}

// forgotPasswordRequest is the body for POST /api/forgot-password.
type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// resetPasswordRequest is the body for POST /api/reset-password.
type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// createWorkoutLogRequest is the body for POST /api/workouts.
type createWorkoutLogRequest struct {
	ExerciseName    string   `json:"exercise_name"`
	Category        *string  `json:"category"`
	Sets            int      `json:"sets"`
	Reps            int      `json:"reps"`
	WeightKG        *float64 `json:"weight_kg"`
	DurationMinutes *int     `json:"duration_minutes"`
	Notes           *string  `json:"notes"`
}

// createProgressEntryRequest is the body for POST /api/progress.
type createProgressEntryRequest struct {
	WeightKG          float64  `json:"weight_kg"`
	BMI               *float64 `json:"bmi"`
	BodyFatPercentage *float64 `json:"body_fat_percentage"`
	MuscleMassKG      *float64 `json:"muscle_mass_kg"`
	Notes             *string  `json:"notes"`
}

// createMealPlanRequest is the body for POST /api/meals (manual plans).
type createMealPlanRequest struct {
	Title       *string  `json:"title"`
	Goal        *string  `json:"goal"`
	DietStyle   *string  `json:"diet_style"`
	Cuisine     *string  `json:"cuisine"`
	MealsPerDay *int     `json:"meals_per_day"`
	CookingTime *string  `json:"cooking_time"`
	BudgetLevel *string  `json:"budget_level"`
	Likes       *string  `json:"likes"`
	Dislikes    *string  `json:"dislikes"`
	Allergies   *string  `json:"allergies"`
	Language    *string  `json:"language"`
	Calories    *float64 `json:"calories"`
	Protein     *float64 `json:"protein"`
	Carbs       *float64 `json:"carbs"`
	Fat         *float64 `json:"fat"`
	WaterLiters *float64 `json:"water_liters"`
}

// createWaterIntakeRequest is the body for POST /api/water.
type createWaterIntakeRequest struct {
	AmountML int `json:"amount_ml"`
}

// updateNotificationRequest is the body for PUT /api/notifications/:id.
type updateNotificationRequest struct {
	Status string `json:"status"`
}

// putReminderRequest is the body for PUT /api/reminders/:type. All fields
// are pointers — only the provided ones overwrite the stored config.
type putReminderRequest struct {
	Hour            *int `json:"hour"`
	Minute          *int `json:"minute"`
	IntervalMinutes *int `json:"interval_minutes"`
	StartHour       *int `json:"start_hour"`
	StartMinute     *int `json:"start_minute"`
	EndHour         *int `json:"end_hour"`
	EndMinute       *int `json:"end_minute"`
}

// mealPlanPreferences mirror the meal-planning screen inputs.
type mealPlanPreferences struct {
	Goal          *string `json:"goal"`
	DietStyle     *string `json:"diet_style"`
	Cuisine       *string `json:"cuisine"`
	MealsPerDay   *int    `json:"meals_per_day"`
	CookingTime   *string `json:"cooking_time"`
	BudgetLevel   *string `json:"budget_level"`
	LikedFoods    *string `json:"liked_foods"`
	DislikedFoods *string `json:"disliked_foods"`
	Allergies     *string `json:"allergies"`
}

// aiMealPlanRequest is the body for POST /api/ai/meal-plan/weekly.
type aiMealPlanRequest struct {
	Flags       *medicalFlags        `json:"flags"`
	Language    *string              `json:"language"`
	Model       *string              `json:"model"`
	Preferences *mealPlanPreferences `json:"preferences"`
}

// workoutPreferences mirror the workout-planning screen inputs.
type workoutPreferences struct {
	Experience  string  `json:"experience"`
	DaysPerWeek int     `json:"days_per_week"`
	Split       string  `json:"split"`
	Equipment   string  `json:"equipment"`
	Focus       string  `json:"focus"`
	Injuries    *string `json:"injuries"`
	Language    *string `json:"language"`
}

// aiWorkoutPlanRequest is the body for POST /api/ai/workout-plan/monthly.
type aiWorkoutPlanRequest struct {
	Prefs workoutPreferences `json:"prefs"`
}

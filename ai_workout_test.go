package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveWorkoutPlanInputs_Defaults(t *testing.T) {
	in, err := resolveWorkoutPlanInputs(workoutPreferences{})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if in.Experience != "beginner" {
		t.Errorf("expected experience 'beginner', got '%s'", in.Experience)
	}
	if in.DaysPerWeek != 4 {
		t.Errorf("expected 4 days per week, got %d", in.DaysPerWeek)
	}
	if in.Split != "push_pull_legs" {
		t.Errorf("expected split 'push_pull_legs', got '%s'", in.Split)
	}
	if in.Equipment != "gym" {
		t.Errorf("expected equipment 'gym', got '%s'", in.Equipment)
	}
	if in.Focus != "muscle_gain" {
		t.Errorf("expected focus 'muscle_gain', got '%s'", in.Focus)
	}
	if in.Injuries != "none" {
		t.Errorf("expected injuries 'none', got '%s'", in.Injuries)
	}
	if in.Language != "en" {
		t.Errorf("expected language 'en', got '%s'", in.Language)
	}
}

func TestResolveWorkoutPlanInputs_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		prefs workoutPreferences
	}{
		{"unknown experience", workoutPreferences{Experience: "pro"}},
		{"too many days", workoutPreferences{DaysPerWeek: 9}},
		{"too few days", workoutPreferences{DaysPerWeek: 1}},
		{"unknown language", workoutPreferences{Language: strp("fr")}},
	}
	for _, tt := range tests {
		if _, err := resolveWorkoutPlanInputs(tt.prefs); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestBuildWorkoutPlanPrompts(t *testing.T) {
	in, err := resolveWorkoutPlanInputs(workoutPreferences{
		Experience:  "intermediate",
		DaysPerWeek: 5,
		Injuries:    strp("lower back"),
		Language:    strp("ar"),
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	system, userPrompt := buildWorkoutPlanPrompts(profileUser(), in)

	if !strings.Contains(system, "Always generate exactly 4 weeks") {
		t.Error("expected 4-week rule in system prompt")
	}
	if !strings.Contains(userPrompt, "Output language: Arabic") {
		t.Error("expected Arabic output language label")
	}
	if !strings.Contains(userPrompt, "Injuries or limitations: lower back") {
		t.Error("expected injuries in prompt")
	}
	if !strings.Contains(userPrompt, "Days per week: 5") {
		t.Error("expected days per week in prompt")
	}
}

func TestStrField(t *testing.T) {
	m := map[string]interface{}{"split": "full_body", "empty": ""}

	if got := strField(m, "split", "fallback"); got != "full_body" {
		t.Errorf("expected 'full_body', got '%s'", got)
	}
	if got := strField(m, "empty", "fallback"); got != "fallback" {
		t.Errorf("expected fallback for empty string, got '%s'", got)
	}
	if got := strField(nil, "anything", "fallback"); got != "fallback" {
		t.Errorf("expected fallback for nil map, got '%s'", got)
	}
}

func TestIntField(t *testing.T) {
	m := map[string]interface{}{"days_per_week": 5.0, "label": "x"}

	if got := intField(m, "days_per_week", 4); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
	if got := intField(m, "label", 4); got != 4 {
		t.Errorf("expected fallback 4 for non-numeric field, got %d", got)
	}
}

func TestGenerateWorkoutPlan_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{}
	router := gin.New()
	router.POST("/api/ai/workout-plan/monthly", func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	}, h.generateWorkoutPlan)

	req := httptest.NewRequest("POST", "/api/ai/workout-plan/monthly", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

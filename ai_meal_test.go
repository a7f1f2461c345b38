package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// strp and intp build pointer literals for request structs.
func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }
func floatp(f float64) *float64 {
	return &f
}

// profileUser is a fully filled profile for prompt tests.
func profileUser() user {
	return user{
		ID:           7,
		FirstName:    "sam",
		Sex:          strp("male"),
		Age:          intp(25),
		HeightCM:     floatp(180),
		WeightKG:     floatp(80),
		Goal:         strp("maintain"),
		BMI:          floatp(24.69),
		BMR:          floatp(1805),
		WaterIntakeL: floatp(2.64),
	}
}

func TestResolveMealPlanInputs_Defaults(t *testing.T) {
	in := resolveMealPlanInputs(profileUser(), aiMealPlanRequest{})

	if in.MealsPerDay != 4 {
		t.Errorf("expected 4 meals per day, got %d", in.MealsPerDay)
	}
	if in.CookingTime != "quick" {
		t.Errorf("expected cooking_time 'quick', got '%s'", in.CookingTime)
	}
	if in.BudgetLevel != "medium" {
		t.Errorf("expected budget_level 'medium', got '%s'", in.BudgetLevel)
	}
	if in.Language != "en" {
		t.Errorf("expected language 'en', got '%s'", in.Language)
	}
	if in.Model != defaultMealPlanModel {
		t.Errorf("expected model '%s', got '%s'", defaultMealPlanModel, in.Model)
	}
	// Goal falls back to the profile goal.
	if in.Goal != "maintain" {
		t.Errorf("expected goal 'maintain', got '%s'", in.Goal)
	}
}

func TestResolveMealPlanInputs_Overrides(t *testing.T) {
	req := aiMealPlanRequest{
		Flags:    &medicalFlags{Diabetes: true},
		Language: strp("AR"),
		Model:    strp("gpt-4o"),
		Preferences: &mealPlanPreferences{
			Goal:       strp("lose"),
			LikedFoods: strp("  eggs , ,tuna  "),
		},
	}

	in := resolveMealPlanInputs(profileUser(), req)

	if in.Language != "ar" {
		t.Errorf("expected lowercased language 'ar', got '%s'", in.Language)
	}
	if in.Model != "gpt-4o" {
		t.Errorf("expected model override, got '%s'", in.Model)
	}
	if in.Goal != "lose" {
		t.Errorf("expected screen goal to win, got '%s'", in.Goal)
	}
	if in.Liked != "eggs, tuna" {
		t.Errorf("expected normalized liked foods 'eggs, tuna', got '%s'", in.Liked)
	}
	if !in.Diabetes || in.Obesity {
		t.Errorf("expected diabetes=true obesity=false, got %v/%v", in.Diabetes, in.Obesity)
	}
}

func TestBuildMealPlanPrompts_English(t *testing.T) {
	in := resolveMealPlanInputs(profileUser(), aiMealPlanRequest{})
	system, userPrompt := buildMealPlanPrompts(profileUser(), in)

	if !strings.Contains(system, mealLangRuleEN) {
		t.Error("expected English language rule in system prompt")
	}
	if !strings.Contains(system, "week MUST have EXACTLY 7 days") {
		t.Error("expected 7-day rule in system prompt")
	}
	if !strings.Contains(userPrompt, "name: sam") {
		t.Error("expected user name in prompt")
	}
	// BMR 1805 at maintain: 1805*1.55 = 2797.75 -> 2798 kcal.
	if !strings.Contains(userPrompt, "suggested_daily_targets: 2798 kcal, protein 210 g, carbs 280 g, fat 93 g") {
		t.Errorf("expected derived daily targets in prompt, got:\n%s", userPrompt)
	}
	if !strings.Contains(userPrompt, mealDisclaimerEN) {
		t.Error("expected English disclaimer in meta requirements")
	}
}

func TestBuildMealPlanPrompts_Arabic(t *testing.T) {
	req := aiMealPlanRequest{Language: strp("ar")}
	in := resolveMealPlanInputs(profileUser(), req)
	system, userPrompt := buildMealPlanPrompts(profileUser(), in)

	if !strings.Contains(system, mealLangRuleAR) {
		t.Error("expected Arabic language rule in system prompt")
	}
	if !strings.Contains(system, mealDayNamesAR) {
		t.Error("expected Arabic day-name rule in system prompt")
	}
	if !strings.Contains(userPrompt, mealDisclaimerAR) {
		t.Error("expected Arabic disclaimer in meta requirements")
	}
}

func TestBuildMealPlanPrompts_MissingProfileFields(t *testing.T) {
	u := user{ID: 3, FirstName: "lee"}
	in := resolveMealPlanInputs(u, aiMealPlanRequest{})
	_, userPrompt := buildMealPlanPrompts(u, in)

	if !strings.Contains(userPrompt, "age: unknown") {
		t.Error("expected 'age: unknown' for empty profile")
	}
	if !strings.Contains(userPrompt, "suggested_daily_targets: unknown") {
		t.Error("expected unknown targets without a BMR")
	}
	if !strings.Contains(userPrompt, "goal: none") {
		t.Error("expected 'goal: none' for empty profile")
	}
}

func TestNormalizeCSV(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"eggs,tuna", "eggs, tuna"},
		{"  eggs , ,tuna  ", "eggs, tuna"},
		{"", ""},
		{" , , ", ""},
		{"one", "one"},
	}
	for _, tt := range tests {
		if got := normalizeCSV(tt.in); got != tt.want {
			t.Errorf("normalizeCSV(%q): expected %q, got %q", tt.in, got, tt.want)
		}
	}
}

func TestSetDefault(t *testing.T) {
	m := map[string]interface{}{"model": "existing"}
	setDefault(m, "model", "fallback")
	setDefault(m, "language", "en")

	if m["model"] != "existing" {
		t.Errorf("expected existing value kept, got %v", m["model"])
	}
	if m["language"] != "en" {
		t.Errorf("expected missing key filled, got %v", m["language"])
	}
}

func TestNumField(t *testing.T) {
	m := map[string]interface{}{"calories": 2500.0, "label": "x"}

	if got := numField(m, "calories"); got != 2500 {
		t.Errorf("expected 2500, got %v", got)
	}
	if got := numField(m, "label"); got != 0 {
		t.Errorf("expected 0 for non-numeric field, got %v", got)
	}
	if got := numField(nil, "anything"); got != 0 {
		t.Errorf("expected 0 for nil map, got %v", got)
	}
}

/* ─── OpenAI client ──────────────────────────────────────────────────── */

// setupOpenAITest starts a mock chat-completions server and returns a Handler
// pointed at it plus a function to set the mock response.
func setupOpenAITest(t *testing.T) (*Handler, func(int, interface{})) {
	t.Helper()

	var mockStatus int
	var mockBody interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(mockStatus)
		json.NewEncoder(w).Encode(mockBody)
	}))
	t.Cleanup(server.Close)

	h := &Handler{openAIKey: "test-key", openAIBaseURL: server.URL}
	setMock := func(status int, body interface{}) {
		mockStatus = status
		mockBody = body
	}
	return h, setMock
}

// openAIChatResponse wraps a content string in the chat completions response
// shape (choices[0].message.content).
func openAIChatResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"content": content,
				},
			},
		},
	}
}

func TestCallOpenAI_Success(t *testing.T) {
	h, setMock := setupOpenAITest(t)
	setMock(http.StatusOK, openAIChatResponse(`{"ok":true}`))

	content, err := h.callOpenAI(context.Background(), "gpt-4.1", 0.7, 0, []openAIMessage{
		{Role: "user", Content: "hi"},
	})
	if err != nil {
		t.Fatalf("callOpenAI failed: %v", err)
	}
	if content != `{"ok":true}` {
		t.Errorf("unexpected content: %s", content)
	}
}

func TestCallOpenAI_ServerError(t *testing.T) {
	h, setMock := setupOpenAITest(t)
	setMock(http.StatusInternalServerError, map[string]string{"error": "overloaded"})

	_, err := h.callOpenAI(context.Background(), "gpt-4.1", 0.7, 0, nil)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "openai returned status 500") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCallOpenAI_NoChoices(t *testing.T) {
	h, setMock := setupOpenAITest(t)
	setMock(http.StatusOK, map[string]interface{}{"choices": []interface{}{}})

	_, err := h.callOpenAI(context.Background(), "gpt-4.1", 0.7, 0, nil)
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Errorf("expected 'no choices' error, got %v", err)
	}
}

func TestCallOpenAI_MissingKey(t *testing.T) {
	h := &Handler{openAIBaseURL: "http://unused"}

	if _, err := h.callOpenAI(context.Background(), "gpt-4.1", 0.7, 0, nil); err == nil {
		t.Error("expected error when OPENAI_API_KEY is not set")
	}
}

func TestGenerateMealPlan_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{}
	router := gin.New()
	router.POST("/api/ai/meal-plan/weekly", func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	}, h.generateMealPlan)

	req := httptest.NewRequest("POST", "/api/ai/meal-plan/weekly", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

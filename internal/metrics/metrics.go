// Package metrics derives health metrics and daily intake targets from a
// user's biometric profile: BMI, BMR (Mifflin-St Jeor), daily water target
// and calorie/macro targets. Every function is pure — same inputs always
// produce the same outputs, and nothing here touches shared state.
package metrics

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is wrapped by every validation failure in this package so
// callers can map the whole family to a 400 with errors.Is.
var ErrInvalidInput = errors.New("invalid metrics input")

// Sex values accepted by BMR.
const (
	SexMale   = "male"
	SexFemale = "female"
)

// Goal values accepted by the target computations.
const (
	GoalLose     = "lose"
	GoalMaintain = "maintain"
	GoalGain     = "gain"
	GoalStress   = "stress"
)

// goalCalorieFactors maps each profile goal to the adjustment applied to the
// activity-scaled calorie figure. This is the single source of truth for
// valid goals — also used for input validation via ValidGoal.
var goalCalorieFactors = map[string]float64{
	GoalLose:     0.85, // 15% deficit
	GoalMaintain: 1.0,
	GoalGain:     1.10, // 10% surplus
	GoalStress:   1.0,
}

// The constants below are policy, not physics. They control how a raw BMR
// becomes an intake prescription; tune them here, never at call sites.
const (
	// waterLitersPerKG is the baseline daily water intake per kg of body weight.
	waterLitersPerKG = 0.033

	// waterGainBonusLiters is added to the water target for the "gain" goal:
	// a calorie surplus and the extra training volume it implies warrant more
	// fluid than the per-kg baseline.
	waterGainBonusLiters = 0.35

	// defaultActivityMultiplier scales BMR to total daily expenditure.
	// Profiles carry no activity level, so targets assume moderate activity.
	defaultActivityMultiplier = 1.55

	// Macro split as a share of the calorie target, converted to grams at
	// 4 kcal/g for protein and carbs, 9 kcal/g for fat.
	proteinCalorieShare = 0.30
	carbsCalorieShare   = 0.40
	fatCalorieShare     = 0.30

	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0
)

// Targets is the daily intake prescription derived from BMR and goal.
type Targets struct {
	Calories int `json:"calories"`
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
}

// ValidSex reports whether s is a sex value BMR accepts.
func ValidSex(s string) bool {
	return s == SexMale || s == SexFemale
}

// ValidGoal reports whether g is a known profile goal.
func ValidGoal(g string) bool {
	_, ok := goalCalorieFactors[g]
	return ok
}

// BMI computes body mass index (kg/m²) rounded to two decimals.
// Rejects non-positive height or weight rather than dividing by zero.
func BMI(heightCM, weightKG float64) (float64, error) {
	if heightCM <= 0 {
		return 0, fmt.Errorf("%w: height_cm must be positive, got %g", ErrInvalidInput, heightCM)
	}
	if weightKG <= 0 {
		return 0, fmt.Errorf("%w: weight_kg must be positive, got %g", ErrInvalidInput, weightKG)
	}
	heightM := heightCM / 100
	return round2(weightKG / (heightM * heightM)), nil
}

// BMR computes basal metabolic rate (kcal/day) via Mifflin-St Jeor:
// 10*weight + 6.25*height - 5*age, plus 5 for male or minus 161 for female.
// Rounded to the nearest whole kcal.
func BMR(sex string, age int, heightCM, weightKG float64) (float64, error) {
	if age <= 0 || age > 130 {
		return 0, fmt.Errorf("%w: implausible age %d", ErrInvalidInput, age)
	}
	if heightCM <= 0 {
		return 0, fmt.Errorf("%w: height_cm must be positive, got %g", ErrInvalidInput, heightCM)
	}
	if weightKG <= 0 {
		return 0, fmt.Errorf("%w: weight_kg must be positive, got %g", ErrInvalidInput, weightKG)
	}

	bmr := 10*weightKG + 6.25*heightCM - 5*float64(age)
	switch sex {
	case SexMale:
		bmr += 5
	case SexFemale:
		bmr -= 161
	default:
		return 0, fmt.Errorf("%w: unknown sex %q", ErrInvalidInput, sex)
	}
	return math.Round(bmr), nil
}

// WaterTargetLiters computes the daily water target in liters, rounded to
// two decimals: weight_kg * waterLitersPerKG, plus waterGainBonusLiters
// when the goal is "gain". An empty goal is treated as "maintain".
func WaterTargetLiters(weightKG float64, goal string) (float64, error) {
	if weightKG <= 0 {
		return 0, fmt.Errorf("%w: weight_kg must be positive, got %g", ErrInvalidInput, weightKG)
	}
	goal, err := normalizeGoal(goal)
	if err != nil {
		return 0, err
	}
	target := weightKG * waterLitersPerKG
	if goal == GoalGain {
		target += waterGainBonusLiters
	}
	return round2(target), nil
}

// DailyTargets derives the calorie target and macro split from BMR and goal.
// Calories = BMR * defaultActivityMultiplier, adjusted by the goal's factor;
// macros follow the fixed percentage split. All values rounded to integers.
// An empty goal is treated as "maintain".
func DailyTargets(bmr float64, goal string) (Targets, error) {
	if bmr <= 0 {
		return Targets{}, fmt.Errorf("%w: bmr must be positive, got %g", ErrInvalidInput, bmr)
	}
	goal, err := normalizeGoal(goal)
	if err != nil {
		return Targets{}, err
	}

	calories := bmr * defaultActivityMultiplier * goalCalorieFactors[goal]
	return Targets{
		Calories: int(math.Round(calories)),
		ProteinG: int(math.Round(calories * proteinCalorieShare / kcalPerGramProtein)),
		CarbsG:   int(math.Round(calories * carbsCalorieShare / kcalPerGramCarbs)),
		FatG:     int(math.Round(calories * fatCalorieShare / kcalPerGramFat)),
	}, nil
}

// normalizeGoal maps the empty goal to "maintain" and rejects unknown values.
func normalizeGoal(goal string) (string, error) {
	if goal == "" {
		return GoalMaintain, nil
	}
	if !ValidGoal(goal) {
		return "", fmt.Errorf("%w: unknown goal %q", ErrInvalidInput, goal)
	}
	return goal, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

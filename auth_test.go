package main

import (
	"math"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// testHandler returns a Handler with just a signing secret — enough for the
// token helpers, which never touch the database.
func testHandler() *Handler {
	return &Handler{jwtSecret: []byte("test-secret")}
}

func TestToken_RoundTrip(t *testing.T) {
	h := testHandler()

	token, err := h.generateToken(user{ID: 42, FirstName: "sam", Role: "admin"})
	if err != nil {
		t.Fatalf("generateToken failed: %v", err)
	}

	claims, err := h.parseToken(token)
	if err != nil {
		t.Fatalf("parseToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user_id 42, got %d", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("expected role 'admin', got '%s'", claims.Role)
	}
	if claims.Subject != "sam" {
		t.Errorf("expected subject 'sam', got '%s'", claims.Subject)
	}
}

func TestToken_WrongSecret(t *testing.T) {
	h := testHandler()
	token, err := h.generateToken(user{ID: 1, FirstName: "sam", Role: "user"})
	if err != nil {
		t.Fatalf("generateToken failed: %v", err)
	}

	other := &Handler{jwtSecret: []byte("different-secret")}
	if _, err := other.parseToken(token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestToken_Expired(t *testing.T) {
	h := testHandler()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "sam",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
		},
		UserID: 1,
		Role:   "user",
	})
	signed, err := expired.SignedString(h.jwtSecret)
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	if _, err := h.parseToken(signed); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestToken_RejectsOtherSigningMethods(t *testing.T) {
	h := testHandler()

	// HS512 is validly signed with the same secret but must be rejected,
	// since only HS256 is allowed.
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: 1,
	})
	signed, err := token.SignedString(h.jwtSecret)
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	if _, err := h.parseToken(signed); err == nil {
		t.Error("expected error for HS512-signed token")
	}
}

// approxEqual compares floats with a small tolerance.
func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestDeriveMetrics_FullProfile(t *testing.T) {
	sex, age, height, weight, goal := "male", 25, 180.0, 80.0, "maintain"

	bmi, bmr, water, err := deriveMetrics(&sex, &age, &height, &weight, &goal)
	if err != nil {
		t.Fatalf("deriveMetrics failed: %v", err)
	}
	if bmi == nil || !approxEqual(*bmi, 24.69) {
		t.Errorf("expected bmi 24.69, got %v", bmi)
	}
	if bmr == nil || !approxEqual(*bmr, 1805) {
		t.Errorf("expected bmr 1805, got %v", bmr)
	}
	if water == nil || !approxEqual(*water, 2.64) {
		t.Errorf("expected water 2.64, got %v", water)
	}
}

func TestDeriveMetrics_NoWeightDefaultsWater(t *testing.T) {
	bmi, bmr, water, err := deriveMetrics(nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("deriveMetrics failed: %v", err)
	}
	if bmi != nil {
		t.Errorf("expected nil bmi, got %v", *bmi)
	}
	if bmr != nil {
		t.Errorf("expected nil bmr, got %v", *bmr)
	}
	if water == nil || *water != defaultWaterLiters {
		t.Errorf("expected default water %v, got %v", defaultWaterLiters, water)
	}
}

func TestDeriveMetrics_HeightAndWeightOnly(t *testing.T) {
	height, weight := 170.0, 70.0

	bmi, bmr, _, err := deriveMetrics(nil, nil, &height, &weight, nil)
	if err != nil {
		t.Fatalf("deriveMetrics failed: %v", err)
	}
	if bmi == nil || !approxEqual(*bmi, 24.22) {
		t.Errorf("expected bmi 24.22, got %v", bmi)
	}
	if bmr != nil {
		t.Errorf("expected nil bmr without sex and age, got %v", *bmr)
	}
}

func TestDeriveMetrics_GainGoalAddsWater(t *testing.T) {
	weight, goal := 80.0, "gain"

	_, _, water, err := deriveMetrics(nil, nil, nil, &weight, &goal)
	if err != nil {
		t.Fatalf("deriveMetrics failed: %v", err)
	}
	// 80 * 0.033 = 2.64, plus the gain bonus.
	if water == nil || !approxEqual(*water, 2.99) {
		t.Errorf("expected water 2.99, got %v", water)
	}
}

func TestDeriveMetrics_InvalidWeight(t *testing.T) {
	weight := -5.0

	if _, _, _, err := deriveMetrics(nil, nil, nil, &weight, nil); err == nil {
		t.Error("expected error for negative weight")
	}
}

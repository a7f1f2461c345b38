package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"rh/ai-fitness-go-api/internal/metrics"
)

// tokenValidity is how long an access token stays usable after login.
const tokenValidity = 24 * time.Hour

// defaultWaterLiters is the fallback daily water target for accounts that
// signed up without a body weight. Profiles with a weight get the computed
// target from the metrics package instead.
const defaultWaterLiters = 2.5

// dummyHash is a pre-computed bcrypt hash used when a login name isn't found.
// Running bcrypt against it (instead of returning early) keeps response time
// constant, preventing timing-based account enumeration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// authClaims are the JWT claims carried by access tokens: the registered
// set plus the user id and role, so the middleware can authorize without a
// second lookup.
type authClaims struct {
	jwt.RegisteredClaims
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
}

// generateToken signs a 24h HS256 access token for the user.
func (h *Handler) generateToken(u user) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.FirstName,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenValidity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: u.ID,
		Role:   u.Role,
	})
	return token.SignedString(h.jwtSecret)
}

// parseToken validates a token string and returns its claims.
func (h *Handler) parseToken(tokenString string) (*authClaims, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return h.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

/* ─── Handlers ────────────────────────────────────────────────────────── */

// signup creates a new account. Derived metrics (BMI, BMR, water target)
// are computed from whatever biometrics the request carries; if an email is
// given, a verification link is sent.
// POST /api/signup (public — no auth required).
func (h *Handler) signup(c *gin.Context) {
	var body signupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.FirstName == "" || body.Password == "" {
		apiError(c, http.StatusBadRequest, "first_name and password are required")
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

	var exists bool
	if err := h.db.QueryRow(c,
		"SELECT EXISTS (SELECT 1 FROM users WHERE first_name = $1)", body.FirstName,
	).Scan(&exists); err != nil {
		apiError(c, http.StatusInternalServerError, "could not create user")
		return
	}
	if exists {
		apiError(c, http.StatusBadRequest, "User already exists")
		return
	}

	bmi, bmr, water, err := deriveMetrics(body.Sex, body.Age, body.HeightCM, body.WeightKG, body.Goal)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "could not create user")
		return
	}

	var verificationToken *string
	if body.Email != nil && *body.Email != "" {
		t := uuid.NewString()
		verificationToken = &t
	}

	u, err := queryOne[user](h.db, c, `
		INSERT INTO users (first_name, password, email, sex, age, height_cm, weight_kg, goal,
		                   bmi, bmr, water_intake_l, email_verification_token)
		VALUES (@first_name, @password, @email, @sex, @age, @height_cm, @weight_kg, @goal,
		        @bmi, @bmr, @water_intake_l, @verification_token)
		RETURNING *`,
		pgx.NamedArgs{
			"first_name":         body.FirstName,
			"password":           string(hash),
			"email":              body.Email,
			"sex":                body.Sex,
			"age":                body.Age,
			"height_cm":          body.HeightCM,
			"weight_kg":          body.WeightKG,
			"goal":               body.Goal,
			"bmi":                bmi,
			"bmr":                bmr,
			"water_intake_l":     water,
			"verification_token": verificationToken,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "could not create user")
		return
	}

	if verificationToken != nil {
		h.mailer.SendVerification(*u.Email, u.FirstName, *verificationToken)
	}

	c.JSON(http.StatusCreated, u)
}

// login verifies first name + password and returns a signed access token.
// Deactivated accounts are rejected with 403.
// POST /api/login (public — no auth required).
func (h *Handler) login(c *gin.Context) {
	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, lookupErr := queryOne[user](h.db, c,
		"SELECT * FROM users WHERE first_name = @first_name",
		pgx.NamedArgs{"first_name": body.FirstName})

	// Always run bcrypt to keep response time constant regardless of whether
	// the name was found — prevents timing-based account enumeration.
	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil || compareErr != nil {
		apiError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !u.Active {
		apiError(c, http.StatusForbidden, "Your account has been deactivated. Please contact an administrator.")
		return
	}

	token, err := h.generateToken(u)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "could not sign token")
		return
	}

	if _, err := h.db.Exec(c,
		"UPDATE users SET last_login = now() WHERE id = $1", u.ID); err != nil {
		// Non-fatal: the login itself succeeded.
		log.Printf("[login] failed to record last_login for user %d: %v", u.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user_id":      u.ID,
		"first_name":   u.FirstName,
		"role":         u.Role,
	})
}

// authMiddleware validates the Bearer token and sets user_id and role on the
// context.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		claims, err := h.parseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// requireAdmin rejects requests whose token doesn't carry the admin role.
// Must run after authMiddleware.
func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != "admin" {
			apiError(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// deriveMetrics computes BMI, BMR and the daily water target from whatever
// profile fields are present. Missing inputs leave the corresponding metric
// nil; invalid inputs return the error from the metrics package.
func deriveMetrics(sex *string, age *int, heightCM, weightKG *float64, goal *string) (bmi, bmr, water *float64, err error) {
	g := ""
	if goal != nil {
		g = *goal
	}

	w := defaultWaterLiters
	if weightKG != nil {
		w, err = metrics.WaterTargetLiters(*weightKG, g)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	water = &w

	if heightCM != nil && weightKG != nil {
		v, err := metrics.BMI(*heightCM, *weightKG)
		if err != nil {
			return nil, nil, nil, err
		}
		bmi = &v
	}
	if sex != nil && age != nil && heightCM != nil && weightKG != nil {
		v, err := metrics.BMR(*sex, *age, *heightCM, *weightKG)
		if err != nil {
			return nil, nil, nil, err
		}
		bmr = &v
	}
	return bmi, bmr, water, nil
}

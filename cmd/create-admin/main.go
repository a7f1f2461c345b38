// CLI tool to create (or reset) the admin account with a bcrypt-hashed
// password. If a user with the given first name already exists, its
// password is reset and the account is promoted to admin and reactivated.
// Usage: go run ./cmd/create-admin
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"rh/ai-fitness-go-api/internal/metrics"
)

// Default profile for a fresh admin row; metrics are derived from it.
const (
	adminSex      = "male"
	adminAge      = 30
	adminHeightCM = 175.0
	adminWeightKG = 75.0
	adminGoal     = "maintain"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	conn, err := pgx.Connect(context.Background(), os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(context.Background())

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("First name [admin]: ")
	firstName, _ := reader.ReadString('\n')
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		firstName = "admin"
	}

	fmt.Print("Password: ")
	password, _ := reader.ReadString('\n')
	password = strings.TrimSpace(password)
	if password == "" {
		fmt.Fprintln(os.Stderr, "Password must not be empty")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	var userID int
	err = conn.QueryRow(context.Background(),
		"SELECT id FROM users WHERE first_name = $1", firstName).Scan(&userID)
	if err == nil {
		_, err = conn.Exec(context.Background(),
			`UPDATE users SET password = $1, role = 'admin', active = TRUE, updated_at = now()
			 WHERE id = $2`, string(hash), userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resetting admin: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nExisting user promoted to admin and password reset.\n")
		fmt.Printf("  ID:         %d\n", userID)
		fmt.Printf("  First name: %s\n", firstName)
		return
	}

	bmi, err := metrics.BMI(adminHeightCM, adminWeightKG)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing BMI: %v\n", err)
		os.Exit(1)
	}
	bmr, err := metrics.BMR(adminSex, adminAge, adminHeightCM, adminWeightKG)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing BMR: %v\n", err)
		os.Exit(1)
	}
	water, err := metrics.WaterTargetLiters(adminWeightKG, adminGoal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing water target: %v\n", err)
		os.Exit(1)
	}

	err = conn.QueryRow(context.Background(),
		`INSERT INTO users (first_name, password, role, sex, age, height_cm, weight_kg, goal,
		                    active, bmi, bmr, water_intake_l)
		 VALUES ($1, $2, 'admin', $3, $4, $5, $6, $7, TRUE, $8, $9, $10)
		 RETURNING id`,
		firstName, string(hash), adminSex, adminAge, adminHeightCM, adminWeightKG, adminGoal,
		bmi, bmr, water,
	).Scan(&userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating admin: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nAdmin created successfully!\n")
	fmt.Printf("  ID:         %d\n", userID)
	fmt.Printf("  First name: %s\n", firstName)
	fmt.Printf("  BMI:        %.2f\n", bmi)
	fmt.Printf("  BMR:        %.0f kcal\n", bmr)
	fmt.Printf("  Water:      %.2f L/day\n", water)
}

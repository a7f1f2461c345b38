package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rh/ai-fitness-go-api/internal/remind"
)

// Handler holds shared dependencies (db pool, config, collaborators) for all
// route handlers.
type Handler struct {
	db            *pgxpool.Pool
	jwtSecret     []byte
	openAIKey     string
	openAIBaseURL string // Base URL for OpenAI API (overridable for tests)
	images        ImageStore
	mailer        *Mailer
	reminders     *remind.Scheduler
	reminderStore remind.ConfigStore
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn)
// because hosted Postgres providers close idle connections after a few
// minutes.
func getDBPool(dbURL string) *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from the server-side prepared statement cache after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("DB pool ready!")
	return pool
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.GET("/api/test", h.healthCheck)
	router.POST("/api/signup", h.signup)
	router.POST("/api/login", h.login)
	router.POST("/api/verify-email", h.verifyEmail)
	router.POST("/api/forgot-password", h.forgotPassword)
	router.POST("/api/reset-password", h.resetPassword)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/users/:id", h.getUserProfile)
	api.PUT("/users/:id", h.updateUserProfile)

	api.GET("/supplements", h.listSupplements)
	api.GET("/supplements/:id", h.getSupplement)

	api.GET("/favorites", h.listFavorites)
	api.POST("/favorites/:supplementID", h.addFavorite)
	api.GET("/favorites/:supplementID/check", h.checkFavorite)
	api.DELETE("/favorites/:supplementID", h.removeFavorite)

	api.POST("/workouts", h.createWorkoutLog)
	api.GET("/workouts", h.listWorkoutLogs)
	api.GET("/workouts/stats", h.getWorkoutStats)
	api.DELETE("/workouts/:id", h.deleteWorkoutLog)

	api.POST("/progress", h.createProgressEntry)
	api.GET("/progress", h.listProgressEntries)
	api.DELETE("/progress/:id", h.deleteProgressEntry)

	api.POST("/meals", h.createMealPlan)
	api.GET("/meals", h.listMealPlans)
	api.DELETE("/meals/:id", h.deleteMealPlan)

	api.POST("/water", h.createWaterIntake)
	api.GET("/water/today", h.getWaterToday)

	api.GET("/notifications", h.listNotifications)
	api.PUT("/notifications/:id", h.updateNotification)
	api.DELETE("/notifications/:id", h.deleteNotification)

	api.GET("/reminders", h.listReminders)
	api.PUT("/reminders/:type", h.updateReminder)
	api.POST("/reminders/:type/enable", h.enableReminder)
	api.POST("/reminders/:type/disable", h.disableReminder)
	api.GET("/reminders/:type/triggers", h.listReminderTriggers)

	api.POST("/ai/meal-plan/weekly", h.generateMealPlan)
	api.GET("/ai/meal-plan/weekly/latest", h.getLatestMealPlan)
	api.POST("/ai/workout-plan/monthly", h.generateWorkoutPlan)
	api.GET("/ai/workout-plan/latest", h.getLatestWorkoutPlan)

	// Admin routes
	admin := api.Group("", h.requireAdmin())
	admin.POST("/supplements", h.createSupplement)
	admin.PUT("/supplements/:id", h.updateSupplement)
	admin.DELETE("/supplements/:id", h.deleteSupplement)
	admin.GET("/admin/users", h.listUsers)
	admin.PUT("/admin/users/:id/status", h.setUserStatus)
}

// healthCheck confirms the API and database are reachable.
// GET /api/test (public — no auth required).
func (h *Handler) healthCheck(c *gin.Context) {
	if err := h.db.Ping(c); err != nil {
		apiError(c, http.StatusInternalServerError, "database unreachable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "API is running", "database": "connected"})
}

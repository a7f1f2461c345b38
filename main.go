// AI fitness API server: auth, profiles, supplements, workout/progress
// tracking, reminders and OpenAI-generated meal and workout plans.
// Run from the repo root; configuration comes from the environment
// (a .env file is loaded when present).
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"rh/ai-fitness-go-api/internal/remind"
)

func main() {
	log.SetPrefix("rh/ai-fitness-go-api: ")
	log.SetFlags(0)

	// .env is a development convenience; deployments set real env vars.
	if err := godotenv.Load(); err != nil {
		log.Printf("[startup] no .env loaded: %v", err)
	}
	cfg := loadConfig()
	if cfg.JWTSecret == "" {
		log.Fatal("[startup] JWT_SECRET is required")
	}

	db := getDBPool(cfg.DBURL)
	defer db.Close()

	images, err := newImageStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("[startup] image store: %v", err)
	}

	h := &Handler{
		db:            db,
		jwtSecret:     []byte(cfg.JWTSecret),
		openAIKey:     cfg.OpenAIKey,
		openAIBaseURL: cfg.OpenAIBaseURL,
		images:        images,
		mailer:        NewMailer(cfg),
	}

	// Reminders fire through cron and land in the notifications table.
	store := newPGReminderStore(db)
	device := remind.NewCronDevice(func(userID int, content string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.insertNotification(ctx, userID, content); err != nil {
			log.Printf("[remind] failed to store notification for user %d: %v", userID, err)
		}
	})
	device.Start()
	defer device.Stop()

	h.reminders = remind.New(device, store)
	h.reminderStore = store
	if err := h.reminders.Resync(context.Background()); err != nil {
		log.Printf("[startup] reminder resync: %v", err)
	}

	router := gin.Default()
	router.SetTrustedProxies(nil)
	if cfg.ImageStore == "disk" {
		router.Static("/uploads", cfg.UploadDir)
	}
	h.registerRoutes(router)

	srv := &http.Server{Addr: cfg.Addr, Handler: router}
	go func() {
		log.Printf("[startup] listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[startup] server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[shutdown] draining requests")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[shutdown] forced: %v", err)
	}
}

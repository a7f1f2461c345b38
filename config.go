package main

import (
	"os"
	"strconv"
)

// config holds runtime settings for the API server, loaded from the
// environment (with a .env overlay in development).
//
// DB_URL and JWT_SECRET are the only settings without a usable default;
// everything else falls back to development values. IMAGE_STORE selects
// where supplement images live: "disk" (default, ./uploads) or "s3".
type config struct {
	Addr          string // LISTEN_ADDR, default ":8000"
	DBURL         string // DB_URL
	JWTSecret     string // JWT_SECRET
	OpenAIKey     string // OPENAI_API_KEY
	OpenAIBaseURL string // OPENAI_BASE_URL, default https://api.openai.com
	FrontendURL   string // FRONTEND_URL, used in email links

	SMTPHost     string // SMTP_SERVER
	SMTPPort     int    // SMTP_PORT, default 587
	SMTPUsername string // SMTP_USERNAME — empty disables real sending
	SMTPPassword string // SMTP_PASSWORD
	FromEmail    string // FROM_EMAIL, defaults to SMTP_USERNAME

	ImageStore string // IMAGE_STORE: "disk" or "s3"
	UploadDir  string // UPLOAD_DIR, default "uploads"

	S3Bucket    string // S3_BUCKET
	S3Region    string // S3_REGION
	S3Endpoint  string // S3_ENDPOINT — empty means real AWS
	S3AccessKey string // S3_ACCESS_KEY
	S3SecretKey string // S3_SECRET_KEY
}

// loadConfig reads settings from the environment, applying defaults.
func loadConfig() config {
	cfg := config{
		Addr:          envOr("LISTEN_ADDR", ":8000"),
		DBURL:         os.Getenv("DB_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: envOr("OPENAI_BASE_URL", "https://api.openai.com"),
		FrontendURL:   envOr("FRONTEND_URL", "http://localhost:8000"),

		SMTPHost:     envOr("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:     envIntOr("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		ImageStore: envOr("IMAGE_STORE", "disk"),
		UploadDir:  envOr("UPLOAD_DIR", "uploads"),

		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    envOr("S3_REGION", "us-east-1"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
	}
	cfg.FromEmail = envOr("FROM_EMAIL", cfg.SMTPUsername)
	return cfg
}

// envOr returns the value of key, or fallback when unset or empty.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envIntOr returns the integer value of key, or fallback when unset or
// not a number.
func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

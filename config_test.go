package main

import "testing"

// clearEnv blanks every config variable so defaults are exercised
// regardless of the host environment.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"LISTEN_ADDR", "DB_URL", "JWT_SECRET", "OPENAI_API_KEY", "OPENAI_BASE_URL",
		"FRONTEND_URL", "SMTP_SERVER", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD",
		"FROM_EMAIL", "IMAGE_STORE", "UPLOAD_DIR", "S3_BUCKET", "S3_REGION",
		"S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := loadConfig()

	if cfg.Addr != ":8000" {
		t.Errorf("expected addr ':8000', got '%s'", cfg.Addr)
	}
	if cfg.OpenAIBaseURL != "https://api.openai.com" {
		t.Errorf("unexpected OpenAI base URL '%s'", cfg.OpenAIBaseURL)
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("expected SMTP port 587, got %d", cfg.SMTPPort)
	}
	if cfg.ImageStore != "disk" {
		t.Errorf("expected image store 'disk', got '%s'", cfg.ImageStore)
	}
	if cfg.UploadDir != "uploads" {
		t.Errorf("expected upload dir 'uploads', got '%s'", cfg.UploadDir)
	}
	if cfg.S3Region != "us-east-1" {
		t.Errorf("expected S3 region 'us-east-1', got '%s'", cfg.S3Region)
	}
}

func TestLoadConfig_FromEmailDefaultsToUsername(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMTP_USERNAME", "coach@example.com")

	cfg := loadConfig()

	if cfg.FromEmail != "coach@example.com" {
		t.Errorf("expected from address to default to SMTP username, got '%s'", cfg.FromEmail)
	}

	t.Setenv("FROM_EMAIL", "noreply@example.com")
	cfg = loadConfig()
	if cfg.FromEmail != "noreply@example.com" {
		t.Errorf("expected explicit FROM_EMAIL to win, got '%s'", cfg.FromEmail)
	}
}

func TestEnvIntOr(t *testing.T) {
	t.Setenv("SOME_PORT", "2525")
	if got := envIntOr("SOME_PORT", 587); got != 2525 {
		t.Errorf("expected 2525, got %d", got)
	}

	t.Setenv("SOME_PORT", "not-a-number")
	if got := envIntOr("SOME_PORT", 587); got != 587 {
		t.Errorf("expected fallback 587 for bad value, got %d", got)
	}

	t.Setenv("SOME_PORT", "")
	if got := envIntOr("SOME_PORT", 587); got != 587 {
		t.Errorf("expected fallback 587 for empty value, got %d", got)
	}
}

package main

import (
	"fmt"
	"log"
	"net/http"
	"net/smtp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// resetTokenValidity is how long a password-reset link stays usable.
const resetTokenValidity = time.Hour

// Mailer sends account emails over SMTP. When no credentials are configured
// it logs the links instead of sending, so signup and password reset work in
// development without a mail account.
type Mailer struct {
	host        string
	port        int
	username    string
	password    string
	from        string
	frontendURL string
}

// NewMailer builds a Mailer from the server config.
func NewMailer(cfg config) *Mailer {
	return &Mailer{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		username:    cfg.SMTPUsername,
		password:    cfg.SMTPPassword,
		from:        cfg.FromEmail,
		frontendURL: cfg.FrontendURL,
	}
}

// SendVerification mails the email-verification link for a new account.
func (m *Mailer) SendVerification(to, firstName, token string) {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.frontendURL, token)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"Thank you for signing up for AI Fitness App!\r\n\r\n"+
			"Please verify your email address by opening the link below:\r\n%s\r\n\r\n"+
			"If you didn't create this account, please ignore this email.\r\n",
		firstName, link)
	m.send(to, "Verify Your Email - AI Fitness App", body, link)
}

// SendPasswordReset mails the password-reset link. The link expires after
// resetTokenValidity.
func (m *Mailer) SendPasswordReset(to, firstName, token string) {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.frontendURL, token)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"You requested to reset your password for your AI Fitness App account.\r\n\r\n"+
			"Open the link below to reset your password:\r\n%s\r\n\r\n"+
			"This link will expire in 1 hour.\r\n\r\n"+
			"If you didn't request this, please ignore this email and your password will remain unchanged.\r\n",
		firstName, link)
	m.send(to, "Reset Your Password - AI Fitness App", body, link)
}

// send delivers one message, or logs the link when SMTP isn't configured.
// Failures are logged, never surfaced — account flows must not break
// because the mail provider is down.
func (m *Mailer) send(to, subject, body, link string) {
	if m.username == "" || m.password == "" {
		log.Printf("[email] SMTP not configured, would send %q to %s: %s", subject, to, link)
		return
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		log.Printf("[email] failed to send %q to %s: %v", subject, to, err)
		return
	}
	log.Printf("[email] sent %q to %s", subject, to)
}

/* ─── Handlers ────────────────────────────────────────────────────────── */

// verifyEmail consumes a verification token and marks the email verified.
// POST /api/verify-email (public — no auth required).
func (h *Handler) verifyEmail(c *gin.Context) {
	var body verifyEmailRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Token == "" {
		apiError(c, http.StatusBadRequest, "token is required")
		return
	}

	tag, err := h.db.Exec(c, `
		UPDATE users
		SET email_verified = TRUE, email_verification_token = NULL, updated_at = now()
		WHERE email_verification_token = $1`, body.Token)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "could not verify email")
		return
	}
	if tag.RowsAffected() == 0 {
		apiError(c, http.StatusBadRequest, "invalid or expired verification token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

// forgotPassword issues a password-reset token for a registered email.
// Always responds 200 so the endpoint can't be used to probe which emails
// exist.
// POST /api/forgot-password (public — no auth required).
func (h *Handler) forgotPassword(c *gin.Context) {
	var body forgotPasswordRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" {
		apiError(c, http.StatusBadRequest, "email is required")
		return
	}

	u, err := queryOne[user](h.db, c,
		"SELECT * FROM users WHERE email = @email",
		pgx.NamedArgs{"email": body.Email})
	if err == nil {
		token := uuid.NewString()
		expires := time.Now().Add(resetTokenValidity)
		if _, err := h.db.Exec(c, `
			UPDATE users
			SET password_reset_token = $1, password_reset_expires = $2, updated_at = now()
			WHERE id = $3`, token, expires, u.ID); err != nil {
			log.Printf("[forgotPassword] failed to store reset token for user %d: %v", u.ID, err)
		} else {
			h.mailer.SendPasswordReset(body.Email, u.FirstName, token)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "If that email is registered, a reset link has been sent"})
}

// resetPassword sets a new password for a valid, unexpired reset token and
// clears the token.
// POST /api/reset-password (public — no auth required).
func (h *Handler) resetPassword(c *gin.Context) {
	var body resetPasswordRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Token == "" || body.NewPassword == "" {
		apiError(c, http.StatusBadRequest, "token and new_password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "could not reset password")
		return
	}

	tag, err := h.db.Exec(c, `
		UPDATE users
		SET password = $1, password_reset_token = NULL, password_reset_expires = NULL, updated_at = now()
		WHERE password_reset_token = $2 AND password_reset_expires > now()`,
		string(hash), body.Token)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "could not reset password")
		return
	}
	if tag.RowsAffected() == 0 {
		apiError(c, http.StatusBadRequest, "invalid or expired reset token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

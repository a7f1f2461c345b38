package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// insertNotification adds a pending row to a user's notification feed. The
// reminder scheduler delivers triggers through this.
func (h *Handler) insertNotification(ctx context.Context, userID int, message string) error {
	_, err := h.db.Exec(ctx,
		"INSERT INTO notifications (user_id, message) VALUES ($1, $2)", userID, message)
	return err
}

// listNotifications returns the user's feed, newest first.
// GET /api/notifications.
func (h *Handler) listNotifications(c *gin.Context) {
	userID := c.GetInt("user_id")

	notifs, err := queryMany[notification](h.db, c,
		"SELECT * FROM notifications WHERE user_id = @userID ORDER BY created_at DESC",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch notifications")
		return
	}
	if notifs == nil {
		notifs = []notification{}
	}
	c.JSON(http.StatusOK, notifs)
}

// updateNotification changes a notification's status (pending → read).
// PUT /api/notifications/:id. Body: { "status": string }.
func (h *Handler) updateNotification(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body updateNotificationRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Status == "" {
		apiError(c, http.StatusBadRequest, "status is required")
		return
	}

	result, err := h.db.Exec(c,
		"UPDATE notifications SET status = @status WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"status": body.Status, "id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update notification")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "Notification not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification updated successfully"})
}

// deleteNotification removes one row from the feed.
// DELETE /api/notifications/:id. Ownership is enforced by requiring both id
// and user_id to match.
func (h *Handler) deleteNotification(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM notifications WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete notification")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "Notification not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}

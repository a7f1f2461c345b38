package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// addFavorite puts a supplement on the authenticated user's favorites list.
// POST /api/favorites/:supplementID. Favoriting twice returns 400.
func (h *Handler) addFavorite(c *gin.Context) {
	userID := c.GetInt("user_id")
	supplementID := c.Param("supplementID")

	var exists bool
	if err := h.db.QueryRow(c,
		"SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND supplement_id = $2)",
		userID, supplementID).Scan(&exists); err != nil {
		apiError(c, http.StatusInternalServerError, "failed to add favorite")
		return
	}
	if exists {
		apiError(c, http.StatusBadRequest, "Already in favorites")
		return
	}

	fav, err := queryOne[favorite](h.db, c, `
		INSERT INTO favorites (user_id, supplement_id)
		VALUES (@userID, @supplementID)
		RETURNING *`,
		pgx.NamedArgs{"userID": userID, "supplementID": supplementID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to add favorite")
		return
	}
	c.JSON(http.StatusCreated, fav)
}

// listFavorites returns the supplement IDs the user has favorited.
// GET /api/favorites.
func (h *Handler) listFavorites(c *gin.Context) {
	userID := c.GetInt("user_id")

	rows, err := h.db.Query(c,
		"SELECT supplement_id FROM favorites WHERE user_id = $1 ORDER BY created_at", userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch favorites")
		return
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch favorites")
		return
	}
	if ids == nil {
		ids = []int{}
	}
	c.JSON(http.StatusOK, ids)
}

// checkFavorite reports whether a supplement is on the user's favorites list.
// GET /api/favorites/:supplementID/check.
func (h *Handler) checkFavorite(c *gin.Context) {
	userID := c.GetInt("user_id")
	supplementID := c.Param("supplementID")

	fav, err := queryOne[favorite](h.db, c,
		"SELECT * FROM favorites WHERE user_id = @userID AND supplement_id = @supplementID",
		pgx.NamedArgs{"userID": userID, "supplementID": supplementID})
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"is_favorite": false, "favorite_id": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_favorite": true, "favorite_id": fav.ID})
}

// removeFavorite takes a supplement off the user's favorites list.
// DELETE /api/favorites/:supplementID.
func (h *Handler) removeFavorite(c *gin.Context) {
	userID := c.GetInt("user_id")
	supplementID := c.Param("supplementID")

	result, err := h.db.Exec(c,
		"DELETE FROM favorites WHERE user_id = @userID AND supplement_id = @supplementID",
		pgx.NamedArgs{"userID": userID, "supplementID": supplementID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to remove favorite")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "Favorite not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites successfully"})
}

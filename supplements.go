package main

import (
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// readImageUpload reads an uploaded image into memory and stores it,
// returning the stored object name.
func (h *Handler) readImageUpload(c *gin.Context, fileHeader *multipart.FileHeader) (string, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return h.images.Save(c, imageExt(fileHeader.Filename), data)
}

// listSupplements returns the whole catalog.
// GET /api/supplements.
func (h *Handler) listSupplements(c *gin.Context) {
	sups, err := queryMany[supplement](h.db, c,
		"SELECT * FROM supplements ORDER BY id", pgx.NamedArgs{})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch supplements")
		return
	}
	c.JSON(http.StatusOK, sups)
}

// getSupplement returns a single supplement by ID.
// GET /api/supplements/:id.
func (h *Handler) getSupplement(c *gin.Context) {
	s, err := queryOne[supplement](h.db, c,
		"SELECT * FROM supplements WHERE id = @id",
		pgx.NamedArgs{"id": c.Param("id")})
	if err != nil {
		apiError(c, http.StatusNotFound, "Supplement not found")
		return
	}
	c.JSON(http.StatusOK, s)
}

// createSupplement adds a catalog item with an optional image.
// POST /api/supplements (admin only, multipart/form-data).
func (h *Handler) createSupplement(c *gin.Context) {
	name := c.PostForm("name")
	description := c.PostForm("description")
	priceStr := c.PostForm("price")
	if name == "" || priceStr == "" {
		apiError(c, http.StatusBadRequest, "name and price are required")
		return
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price < 0 {
		apiError(c, http.StatusBadRequest, "price must be a non-negative number")
		return
	}

	var imageURL *string
	if fileHeader, err := c.FormFile("image"); err == nil {
		stored, err := h.readImageUpload(c, fileHeader)
		if err != nil {
			apiError(c, http.StatusInternalServerError, "failed to store image")
			return
		}
		imageURL = &stored
	}

	s, err := queryOne[supplement](h.db, c, `
		INSERT INTO supplements (name, description, price, image_url)
		VALUES (@name, @description, @price, @imageURL)
		RETURNING *`,
		pgx.NamedArgs{"name": name, "description": description, "price": price, "imageURL": imageURL})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create supplement")
		return
	}
	c.JSON(http.StatusCreated, s)
}

// updateSupplement partially updates a catalog item. Only form fields that
// were actually sent get written; uploading a new image deletes the old
// stored object.
// PUT /api/supplements/:id (admin only, multipart/form-data).
func (h *Handler) updateSupplement(c *gin.Context) {
	id := c.Param("id")

	existing, err := queryOne[supplement](h.db, c,
		"SELECT * FROM supplements WHERE id = @id", pgx.NamedArgs{"id": id})
	if err != nil {
		apiError(c, http.StatusNotFound, "Supplement not found")
		return
	}

	// Build SET clause dynamically — only update fields the client actually sent
	setClauses := []string{}
	args := pgx.NamedArgs{"id": id}

	if name, ok := c.GetPostForm("name"); ok {
		setClauses = append(setClauses, "name = @name")
		args["name"] = name
	}
	if description, ok := c.GetPostForm("description"); ok {
		setClauses = append(setClauses, "description = @description")
		args["description"] = description
	}
	if priceStr, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			apiError(c, http.StatusBadRequest, "price must be a non-negative number")
			return
		}
		setClauses = append(setClauses, "price = @price")
		args["price"] = price
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		stored, err := h.readImageUpload(c, fileHeader)
		if err != nil {
			apiError(c, http.StatusInternalServerError, "failed to store image")
			return
		}
		if existing.ImageURL != nil {
			if err := h.images.Delete(c, *existing.ImageURL); err != nil {
				log.Printf("[updateSupplement] failed to delete old image %s: %v", *existing.ImageURL, err)
			}
		}
		setClauses = append(setClauses, "image_url = @imageURL")
		args["imageURL"] = stored
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	query := "UPDATE supplements SET " + strings.Join(setClauses, ", ") +
		" WHERE id = @id RETURNING *"

	s, err := queryOne[supplement](h.db, c, query, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update supplement")
		return
	}
	c.JSON(http.StatusOK, s)
}

// deleteSupplement removes a catalog item and its stored image.
// DELETE /api/supplements/:id (admin only).
func (h *Handler) deleteSupplement(c *gin.Context) {
	s, err := queryOne[supplement](h.db, c,
		"DELETE FROM supplements WHERE id = @id RETURNING *",
		pgx.NamedArgs{"id": c.Param("id")})
	if err != nil {
		apiError(c, http.StatusNotFound, "Supplement not found")
		return
	}

	if s.ImageURL != nil {
		if err := h.images.Delete(c, *s.ImageURL); err != nil {
			log.Printf("[deleteSupplement] failed to delete image %s: %v", *s.ImageURL, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Supplement deleted successfully"})
}

package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/styleum/internal/models"
	"github.com/your-org/styleum/internal/storage"
	"github.com/your-org/styleum/pkg/dto"
)

type ItemHandler struct {
	db     *storage.PostgresStore
	photos *storage.PhotoStore
}

func NewItemHandler(db *storage.PostgresStore, photos *storage.PhotoStore) *ItemHandler {
	return &ItemHandler{db: db, photos: photos}
}

// Create accepts a multipart photo upload and registers a pending item.
func (h *ItemHandler) Create(c *gin.Context) {
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file required"})
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read photo failed"})
		return
	}

	var userID *uuid.UUID
	if uidStr := c.PostForm("user_id"); uidStr != "" {
		id, err := uuid.Parse(uidStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		userID = &id
	}

	photoKey := "items/" + uuid.New().String() + "_" + header.Filename
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if err := h.photos.PutPhoto(c.Request.Context(), photoKey, imageData, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store photo failed"})
		return
	}

	item, err := h.db.CreateItem(c.Request.Context(), userID, photoKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, h.toResponse(c, item))
}

func (h *ItemHandler) List(c *gin.Context) {
	var userID *uuid.UUID
	if uidStr := c.Query("user_id"); uidStr != "" {
		id, err := uuid.Parse(uidStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		userID = &id
	}

	limit := 50
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && l > 0 && l <= 200 {
		limit = l
	}
	offset := 0
	if o, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && o >= 0 {
		offset = o
	}

	items, total, err := h.db.ListItems(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, h.toResponse(c, &items[i]))
	}

	c.JSON(http.StatusOK, dto.ItemListResponse{Items: resp, Total: total})
}

func (h *ItemHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	item, err := h.db.GetItem(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	c.JSON(http.StatusOK, h.toResponse(c, item))
}

// Photo streams the stored photo bytes for an item.
func (h *ItemHandler) Photo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	item, err := h.db.GetItem(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	data, err := h.photos.GetPhoto(c.Request.Context(), item.PhotoKey)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", data)
}

func (h *ItemHandler) toResponse(c *gin.Context, item *models.Item) dto.ItemResponse {
	// Presigned URL is best effort; clients can fall back to /photo.
	photoURL, _ := h.photos.PresignedURL(c.Request.Context(), item.PhotoKey)
	return NewItemResponse(item, photoURL)
}

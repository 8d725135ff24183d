package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/styleum/internal/models"
	"github.com/your-org/styleum/internal/storage"
	"github.com/your-org/styleum/pkg/dto"
)

// SearchStore is the read path the search endpoints depend on.
type SearchStore interface {
	GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error)
	SearchSimilarItems(ctx context.Context, embedding []float32, userID *uuid.UUID, threshold float64, limit int) ([]storage.ItemMatch, error)
	ListAnchors(ctx context.Context) ([]models.VibeAnchor, error)
}

type SearchHandler struct {
	db SearchStore
}

func NewSearchHandler(db SearchStore) *SearchHandler {
	return &SearchHandler{db: db}
}

// Similar finds items whose embeddings are closest to a reference item's.
func (h *SearchHandler) Similar(c *gin.Context) {
	var req dto.SimilarSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.db.GetItem(c.Request.Context(), req.ItemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	if len(item.Embedding) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "item has no embedding yet"})
		return
	}

	threshold := req.Threshold
	if threshold <= 0 {
		threshold = 0.5
	}
	limit := req.Limit
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	matches, err := h.db.SearchSimilarItems(c.Request.Context(), item.Embedding, req.UserID, threshold, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := make([]dto.SimilarResult, 0, len(matches))
	for _, m := range matches {
		if m.ItemID == req.ItemID {
			continue
		}
		results = append(results, dto.SimilarResult{ItemID: m.ItemID, Score: m.Score})
	}

	c.JSON(http.StatusOK, dto.SimilarSearchResponse{Results: results, Total: len(results)})
}

// Anchors lists the vibe anchor catalog.
func (h *SearchHandler) Anchors(c *gin.Context) {
	anchors, err := h.db.ListAnchors(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.AnchorResponse, 0, len(anchors))
	for _, a := range anchors {
		resp = append(resp, dto.AnchorResponse{
			ID:        a.ID,
			Name:      a.Name,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{"anchors": resp, "total": len(resp)})
}

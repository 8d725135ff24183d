package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/styleum/internal/models"
	"github.com/your-org/styleum/internal/queue"
	"github.com/your-org/styleum/internal/storage"
	"github.com/your-org/styleum/pkg/dto"
)

type CorrectionHandler struct {
	db       *storage.PostgresStore
	photos   *storage.PhotoStore
	producer *queue.Producer
}

func NewCorrectionHandler(db *storage.PostgresStore, photos *storage.PhotoStore, producer *queue.Producer) *CorrectionHandler {
	return &CorrectionHandler{db: db, photos: photos, producer: producer}
}

// Create records an owner correction. When the request asks for it, the
// corrected item is queued for reanalysis so the new context takes effect.
func (h *CorrectionHandler) Create(c *gin.Context) {
	var req dto.CreateCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec := &models.CorrectionRecord{
		UserID:         req.UserID,
		ItemID:         req.ItemID,
		Field:          req.Field,
		OriginalValue:  req.OriginalValue,
		CorrectedValue: req.CorrectedValue,
	}
	if err := h.db.AddCorrection(c.Request.Context(), rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if req.Reanalyze && req.ItemID != nil {
		if err := h.enqueueReanalysis(c, *req.ItemID); err != nil {
			// The correction itself is saved; reanalysis is best effort.
			slog.Warn("correction reanalysis enqueue failed", "item_id", *req.ItemID, "error", err)
		}
	}

	c.JSON(http.StatusCreated, dto.CorrectionResponse{
		ID:             rec.ID,
		UserID:         rec.UserID,
		ItemID:         rec.ItemID,
		Field:          rec.Field,
		OriginalValue:  rec.OriginalValue,
		CorrectedValue: rec.CorrectedValue,
		CreatedAt:      rec.CreatedAt.Format(time.RFC3339),
	})
}

func (h *CorrectionHandler) List(c *gin.Context) {
	uidStr := c.Query("user_id")
	if uidStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	userID, err := uuid.Parse(uidStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	limit := 20
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	records, err := h.db.RecentCorrections(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.CorrectionResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, dto.CorrectionResponse{
			ID:             r.ID,
			UserID:         r.UserID,
			ItemID:         r.ItemID,
			Field:          r.Field,
			OriginalValue:  r.OriginalValue,
			CorrectedValue: r.CorrectedValue,
			CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, dto.CorrectionListResponse{Corrections: resp, Total: len(resp)})
}

func (h *CorrectionHandler) enqueueReanalysis(c *gin.Context, itemID uuid.UUID) error {
	item, err := h.db.GetItem(c.Request.Context(), itemID)
	if err != nil || item == nil {
		return err
	}
	imageURL, err := h.photos.PresignedURL(c.Request.Context(), item.PhotoKey)
	if err != nil {
		return err
	}
	task := models.AnalysisTask{
		ItemID:     itemID,
		ImageURL:   imageURL,
		UserID:     item.UserID,
		EnqueuedAt: time.Now().UTC(),
		Reason:     "correction",
	}
	return h.producer.PublishTask(c.Request.Context(), itemID.String(), task)
}

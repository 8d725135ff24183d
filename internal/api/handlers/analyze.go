package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/styleum/internal/ai"
	"github.com/your-org/styleum/internal/models"
	"github.com/your-org/styleum/internal/observability"
	"github.com/your-org/styleum/internal/pipeline"
	"github.com/your-org/styleum/internal/queue"
	"github.com/your-org/styleum/internal/storage"
	"github.com/your-org/styleum/pkg/dto"
)

type AnalyzeHandler struct {
	db       *storage.PostgresStore
	photos   *storage.PhotoStore
	producer *queue.Producer
	pipe     *pipeline.Pipeline
}

func NewAnalyzeHandler(db *storage.PostgresStore, photos *storage.PhotoStore, producer *queue.Producer, pipe *pipeline.Pipeline) *AnalyzeHandler {
	return &AnalyzeHandler{db: db, photos: photos, producer: producer, pipe: pipe}
}

// Analyze runs the full pipeline synchronously and returns the annotation.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	// Body is optional for this endpoint.
	var req dto.AnalyzeRequest
	_ = c.ShouldBindJSON(&req)

	item, err := h.db.GetItem(c.Request.Context(), itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL, err = h.photos.PresignedURL(c.Request.Context(), item.PhotoKey)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "resolve photo url failed"})
			return
		}
	}

	userID := req.UserID
	if userID == nil {
		userID = item.UserID
	}

	analysis, err := h.pipe.Analyze(c.Request.Context(), models.AnalysisRequest{
		ItemID:   itemID,
		ImageURL: imageURL,
		UserID:   userID,
	})
	if err != nil {
		c.JSON(statusForPipelineError(err), gin.H{"error": err.Error()})
		return
	}

	observability.AnalysesCompleted.WithLabelValues("sync").Inc()

	c.JSON(http.StatusOK, dto.AnalyzeResponse{
		Success:             true,
		Analysis:            analysisDTO(analysis),
		EmbeddingDimensions: h.pipe.Dimensions(),
	})
}

// Reanalyze enqueues a background re-run of the pipeline for an item.
func (h *AnalyzeHandler) Reanalyze(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	item, err := h.db.GetItem(c.Request.Context(), itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	imageURL, err := h.photos.PresignedURL(c.Request.Context(), item.PhotoKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resolve photo url failed"})
		return
	}

	task := models.AnalysisTask{
		ItemID:     itemID,
		ImageURL:   imageURL,
		UserID:     item.UserID,
		EnqueuedAt: time.Now().UTC(),
		Reason:     "manual",
	}
	if err := h.producer.PublishTask(c.Request.Context(), itemID.String(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue failed"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "item_id": itemID})
}

func statusForPipelineError(err error) int {
	var missing *pipeline.MissingInputError
	if errors.As(err, &missing) {
		return http.StatusBadRequest
	}
	if pipeline.IsMalformedAnalysis(err) {
		return http.StatusBadGateway
	}
	if ai.IsModelUnavailable(err) {
		return http.StatusBadGateway
	}
	var persist *pipeline.PersistenceError
	if errors.As(err, &persist) {
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

package handlers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/styleum/internal/models"
)

func TestNewItemResponse_AnalyzedItem(t *testing.T) {
	analyzedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	item := &models.Item{
		ID:     uuid.New(),
		Status: models.ItemStatusAnalyzed,
		Analysis: &models.FashionAnalysis{
			ItemName:    "Plaid Flannel Shirt",
			Category:    "top",
			Era:         "1990s",
			Formality:   2,
			VibeScores:  map[string]float64{"grunge": 0.9},
			StyleBucket: "casual",
		},
		Tags:       []string{"casual", "vintage"},
		AnalyzedAt: &analyzedAt,
		CreatedAt:  analyzedAt.Add(-time.Hour),
	}

	resp := NewItemResponse(item, "https://cdn.example/photo.jpg")

	assert.Equal(t, item.ID, resp.ID)
	assert.Equal(t, "analyzed", resp.Status)
	assert.Equal(t, "https://cdn.example/photo.jpg", resp.PhotoURL)
	assert.Equal(t, "2026-08-30T12:00:00Z", resp.AnalyzedAt)
	require.NotNil(t, resp.Analysis)
	assert.Equal(t, "Plaid Flannel Shirt", resp.Analysis.ItemName)
	assert.Equal(t, "1990s", resp.Analysis.Era)
	assert.Equal(t, 2, resp.Analysis.Formality)
	assert.InDelta(t, 0.9, resp.Analysis.VibeScores["grunge"], 1e-9)
}

func TestNewItemResponse_PendingItem(t *testing.T) {
	item := &models.Item{
		ID:        uuid.New(),
		Status:    models.ItemStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	resp := NewItemResponse(item, "")

	assert.Equal(t, "pending", resp.Status)
	assert.Nil(t, resp.Analysis)
	assert.Empty(t, resp.AnalyzedAt)
	assert.Empty(t, resp.PhotoURL)
}

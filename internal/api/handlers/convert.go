package handlers

import (
	"time"

	"github.com/your-org/styleum/internal/models"
	"github.com/your-org/styleum/pkg/dto"
)

func analysisDTO(a *models.FashionAnalysis) *dto.Analysis {
	if a == nil {
		return nil
	}
	return &dto.Analysis{
		ItemName:         a.ItemName,
		Category:         a.Category,
		Subcategory:      a.Subcategory,
		PrimaryColor:     a.PrimaryColor,
		SecondaryColors:  a.SecondaryColors,
		ColorHex:         a.ColorHex,
		Material:         a.Material,
		Fit:              a.Fit,
		Formality:        a.Formality,
		Seasonality:      a.Seasonality,
		Occasions:        a.Occasions,
		StyleBucket:      a.StyleBucket,
		Era:              a.Era,
		EraConfidence:    a.EraConfidence,
		VibeScores:       a.VibeScores,
		DenseCaption:     a.DenseCaption,
		NotableDetails:   a.NotableDetails,
		StyleDescription: a.StyleDescription,
		Unorthodox:       a.Unorthodox,
		UnorthodoxReason: a.UnorthodoxReason,
		OCRText:          a.OCRText,
		Brand:            a.Brand,
	}
}

// NewItemResponse maps an item onto its wire shape. photoURL may be empty
// when the caller has no presigned URL to offer.
func NewItemResponse(item *models.Item, photoURL string) dto.ItemResponse {
	resp := dto.ItemResponse{
		ID:        item.ID,
		UserID:    item.UserID,
		Status:    string(item.Status),
		PhotoURL:  photoURL,
		Analysis:  analysisDTO(item.Analysis),
		Tags:      item.Tags,
		CreatedAt: item.CreatedAt.Format(time.RFC3339),
	}
	if item.AnalyzedAt != nil {
		resp.AnalyzedAt = item.AnalyzedAt.Format(time.RFC3339)
	}
	return resp
}

package dto

import "github.com/google/uuid"

// AnalyzeRequest triggers a synchronous pipeline run. ImageURL is optional
// when the item already has an uploaded photo; UserID enables correction
// personalization.
type AnalyzeRequest struct {
	ImageURL string     `json:"image_url,omitempty"`
	UserID   *uuid.UUID `json:"user_id,omitempty"`
}

// Analysis is the wire shape of a completed fashion analysis. It mirrors the
// internal model field for field so this package stays importable by clients
// without dragging internal types along.
type Analysis struct {
	ItemName         string             `json:"item_name"`
	Category         string             `json:"category"`
	Subcategory      string             `json:"subcategory"`
	PrimaryColor     string             `json:"primary_color"`
	SecondaryColors  []string           `json:"secondary_colors"`
	ColorHex         string             `json:"color_hex"`
	Material         string             `json:"material"`
	Fit              string             `json:"fit"`
	Formality        int                `json:"formality"`
	Seasonality      []string           `json:"seasonality"`
	Occasions        []string           `json:"occasions"`
	StyleBucket      string             `json:"style_bucket"`
	Era              string             `json:"era"`
	EraConfidence    float64            `json:"era_confidence"`
	VibeScores       map[string]float64 `json:"vibe_scores"`
	DenseCaption     string             `json:"dense_caption"`
	NotableDetails   string             `json:"notable_details"`
	StyleDescription string             `json:"style_description"`
	Unorthodox       bool               `json:"unorthodox"`
	UnorthodoxReason string             `json:"unorthodox_reason,omitempty"`
	OCRText          string             `json:"ocr_text,omitempty"`
	Brand            string             `json:"brand,omitempty"`
}

type AnalyzeResponse struct {
	Success             bool      `json:"success"`
	Analysis            *Analysis `json:"analysis,omitempty"`
	EmbeddingDimensions int       `json:"embedding_dimensions,omitempty"`
}

type CreateCorrectionRequest struct {
	UserID         uuid.UUID  `json:"user_id" binding:"required"`
	ItemID         *uuid.UUID `json:"item_id,omitempty"`
	Field          string     `json:"field" binding:"required"`
	OriginalValue  string     `json:"original_value"`
	CorrectedValue string     `json:"corrected_value" binding:"required"`
	Reanalyze      bool       `json:"reanalyze"`
}

type CorrectionResponse struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	ItemID         *uuid.UUID `json:"item_id,omitempty"`
	Field          string     `json:"field"`
	OriginalValue  string     `json:"original_value"`
	CorrectedValue string     `json:"corrected_value"`
	CreatedAt      string     `json:"created_at"`
}

type CorrectionListResponse struct {
	Corrections []CorrectionResponse `json:"corrections"`
	Total       int                  `json:"total"`
}

package models

import "github.com/google/uuid"

// AnalysisRequest identifies one pipeline invocation. Immutable once built.
type AnalysisRequest struct {
	ItemID   uuid.UUID  `json:"item_id"`
	ImageURL string     `json:"image_url"`
	UserID   *uuid.UUID `json:"user_id,omitempty"`
}

// FashionAnalysis is the structured record produced by the reasoning stage
// and enriched by anchor matching. Category and Fit are closed vocabularies
// validated at extraction time; vibe scores are confidences in [0,1].
type FashionAnalysis struct {
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

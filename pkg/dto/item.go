package dto

import "github.com/google/uuid"

type ItemResponse struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	Status     string     `json:"status"`
	PhotoURL   string     `json:"photo_url,omitempty"`
	Analysis   *Analysis  `json:"analysis,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	AnalyzedAt string     `json:"analyzed_at,omitempty"`
	CreatedAt  string     `json:"created_at"`
}

type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total"`
}

type SimilarSearchRequest struct {
	ItemID    uuid.UUID  `json:"item_id" binding:"required"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Threshold float64    `json:"threshold"`
	Limit     int        `json:"limit"`
}

type SimilarResult struct {
	ItemID uuid.UUID `json:"item_id"`
	Score  float32   `json:"score"`
}

type SimilarSearchResponse struct {
	Results []SimilarResult `json:"results"`
	Total   int             `json:"total"`
}

type AnchorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt string    `json:"created_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusAnalyzed ItemStatus = "analyzed"
)

// Item is a single clothing item owned by a user. The annotation fields are
// nil until the first successful pipeline run and fully overwritten by each
// subsequent one.
type Item struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	UserID     *uuid.UUID       `json:"user_id,omitempty" db:"user_id"`
	PhotoKey   string           `json:"photo_key" db:"photo_key"`
	Status     ItemStatus       `json:"status" db:"status"`
	Analysis   *FashionAnalysis `json:"analysis,omitempty" db:"analysis"`
	Embedding  []float32        `json:"-" db:"embedding"`
	Tags       []string         `json:"tags,omitempty" db:"tags"`
	AnalyzedAt *time.Time       `json:"analyzed_at,omitempty" db:"analyzed_at"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at" db:"updated_at"`
}

// PersistedAnnotation is the complete artifact written back to an item's row
// in one atomic update. AnalyzedAt is set at persistence time, not at
// request receipt.
type PersistedAnnotation struct {
	Analysis   FashionAnalysis `json:"analysis"`
	Embedding  []float32       `json:"embedding"`
	Tags       []string        `json:"tags"`
	AnalyzedAt time.Time       `json:"analyzed_at"`
}

// VibeAnchor is one entry of the static anchor catalog: a named aesthetic
// with its pre-computed reference embedding.
type VibeAnchor struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Embedding []float32 `json:"-" db:"embedding"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AnchorMatch is one vibe anchor returned by a similarity query.
type AnchorMatch struct {
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

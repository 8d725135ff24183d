package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisTask is the message published to NATS for worker processing.
type AnalysisTask struct {
	ItemID     uuid.UUID  `json:"item_id"`
	ImageURL   string     `json:"image_url"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	EnqueuedAt time.Time  `json:"enqueued_at"`
	Reason     string     `json:"reason,omitempty"` // e.g. "correction", "manual"
}

// AnnotationEvent is published after a worker finishes (or fails) a queued
// analysis; the API consumes it for WebSocket broadcast.
type AnnotationEvent struct {
	ItemID     uuid.UUID        `json:"item_id"`
	UserID     *uuid.UUID       `json:"user_id,omitempty"`
	Status     string           `json:"status"` // completed, failed
	Error      string           `json:"error,omitempty"`
	Analysis   *FashionAnalysis `json:"analysis,omitempty"`
	Dimensions int              `json:"embedding_dimensions,omitempty"`
	AnalyzedAt time.Time        `json:"analyzed_at"`
}

package dto

import "github.com/google/uuid"

// WSEvent is a WebSocket message for real-time annotation delivery.
type WSEvent struct {
	Type   string        `json:"type"` // item_analyzed, item_failed
	ItemID uuid.UUID     `json:"item_id"`
	UserID *uuid.UUID    `json:"user_id,omitempty"`
	Data   *ItemResponse `json:"data,omitempty"`
	Error  string        `json:"error,omitempty"`
}

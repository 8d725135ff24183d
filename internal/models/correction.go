package models

import (
	"time"

	"github.com/google/uuid"
)

// CorrectionRecord is one manual override of an AI-assigned field, kept as
// read-only history on the user profile and replayed as few-shot context in
// later analyses.
type CorrectionRecord struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	ItemID         *uuid.UUID `json:"item_id,omitempty" db:"item_id"`
	Field          string     `json:"field" db:"field"`
	OriginalValue  string     `json:"original_value" db:"original_value"`
	CorrectedValue string     `json:"corrected_value" db:"corrected_value"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProgressEvent is a recruiter-facing event emitted by the progression and
// bulk-evaluation workflows, streamed over SSE and kept for later listing.
type ProgressEvent struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	RecipientID uint              `gorm:"not null;index" json:"recipient_id"`
	Type        string            `gorm:"size:64;not null" json:"type"`
	Message     string            `gorm:"type:text;not null" json:"message"`
	Metadata    datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	Read        bool              `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time         `json:"created_at"`
}

const (
	// EventTypeRoundProgressed is emitted when a cohort moves to the next round.
	EventTypeRoundProgressed = "round_progressed"
	// EventTypeEvaluationProgress is emitted after each evaluation batch completes.
	EventTypeEvaluationProgress = "evaluation_progress"
	// EventTypeEvaluationCompleted is emitted when a bulk evaluation run finishes.
	EventTypeEvaluationCompleted = "evaluation_completed"
)

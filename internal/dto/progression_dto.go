package dto

import (
	"time"

	"github.com/sparrowhq/talent-api/internal/models"
)

// ProgressRoundRequest asks the service to move a round's full cohort forward.
type ProgressRoundRequest struct {
	JobOpeningID      uint   `json:"job_opening_id" validate:"required,gt=0"`
	CurrentTemplateID uint   `json:"current_template_id" validate:"required,gt=0"`
	IdempotencyKey    string `json:"idempotency_key" validate:"required,min=8,max=64"`
}

// ProgressionResponse reports the outcome of a round progression.
type ProgressionResponse struct {
	JobOpeningID   uint      `json:"job_opening_id"`
	FromTemplateID uint      `json:"from_template_id"`
	ToTemplateID   uint      `json:"to_template_id"`
	CandidateCount int       `json:"candidate_count"`
	Replayed       bool      `json:"replayed"`
	ProgressedAt   time.Time `json:"progressed_at"`
}

// NewProgressionResponse converts a progression receipt into a DTO.
func NewProgressionResponse(receipt models.ProgressionReceipt, replayed bool) ProgressionResponse {
	return ProgressionResponse{
		JobOpeningID:   receipt.JobOpeningID,
		FromTemplateID: receipt.FromTemplateID,
		ToTemplateID:   receipt.ToTemplateID,
		CandidateCount: receipt.CandidateCount,
		Replayed:       replayed,
		ProgressedAt:   receipt.CreatedAt,
	}
}

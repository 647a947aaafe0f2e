package dto

import (
	"time"

	"github.com/sparrowhq/talent-api/internal/models"
)

// ProgressEventCreateRequest publishes one workflow event to a recruiter.
type ProgressEventCreateRequest struct {
	RecipientID uint                   `json:"recipient_id" validate:"required,gt=0"`
	Type        string                 `json:"type" validate:"required,oneof=round_progressed evaluation_progress evaluation_completed"`
	Message     string                 `json:"message" validate:"required,min=1"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// ProgressEventResponse is streamed over SSE and returned when listing events.
type ProgressEventResponse struct {
	ID          uint                   `json:"id"`
	RecipientID uint                   `json:"recipient_id"`
	Type        string                 `json:"type"`
	Message     string                 `json:"message"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Read        bool                   `json:"read"`
	CreatedAt   time.Time              `json:"created_at"`
}

// NewProgressEventResponse converts a ProgressEvent model into a DTO.
func NewProgressEventResponse(model models.ProgressEvent) ProgressEventResponse {
	return ProgressEventResponse{
		ID:          model.ID,
		RecipientID: model.RecipientID,
		Type:        model.Type,
		Message:     model.Message,
		Metadata:    model.Metadata,
		Read:        model.Read,
		CreatedAt:   model.CreatedAt,
	}
}

// NewProgressEventResponseSlice converts progress event models into DTOs.
func NewProgressEventResponseSlice(models []models.ProgressEvent) []ProgressEventResponse {
	responses := make([]ProgressEventResponse, 0, len(models))
	for _, event := range models {
		responses = append(responses, NewProgressEventResponse(event))
	}

	return responses
}

package dto

import (
	"time"

	"github.com/sparrowhq/talent-api/internal/models"
)

// RoundTemplateCreateRequest describes the payload for adding a round to a job.
type RoundTemplateCreateRequest struct {
	JobOpeningID uint   `json:"job_opening_id" validate:"required,gt=0"`
	Name         string `json:"name" validate:"required,min=2,max=255"`
	Type         string `json:"type" validate:"required,oneof=INTERVIEW RAPID_FIRE TALK_ON_A_TOPIC GAMES_ARENA"`
	OrderIndex   int    `json:"order_index" validate:"required,gt=0"`
	IsRequired   *bool  `json:"is_required"`
}

// RoundTemplateResponse is returned to API clients when viewing round templates.
type RoundTemplateResponse struct {
	ID           uint      `json:"id"`
	JobOpeningID uint      `json:"job_opening_id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	OrderIndex   int       `json:"order_index"`
	IsActive     bool      `json:"is_active"`
	IsRequired   bool      `json:"is_required"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewRoundTemplateResponse converts a JobRoundTemplate model into a DTO.
func NewRoundTemplateResponse(model models.JobRoundTemplate) RoundTemplateResponse {
	return RoundTemplateResponse{
		ID:           model.ID,
		JobOpeningID: model.JobOpeningID,
		Name:         model.Name,
		Type:         model.Type,
		OrderIndex:   model.OrderIndex,
		IsActive:     model.IsActive,
		IsRequired:   model.IsRequired,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewRoundTemplateResponseSlice converts round template models into DTOs.
func NewRoundTemplateResponseSlice(models []models.JobRoundTemplate) []RoundTemplateResponse {
	responses := make([]RoundTemplateResponse, 0, len(models))
	for _, template := range models {
		responses = append(responses, NewRoundTemplateResponse(template))
	}

	return responses
}

package dto

import (
	"time"

	"github.com/sparrowhq/talent-api/internal/models"
)

// JobOpeningCreateRequest describes the payload for creating a job opening.
type JobOpeningCreateRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"omitempty"`
}

// JobOpeningUpdateRequest updates mutable job opening fields.
type JobOpeningUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=draft active paused closed"`
}

// JobOpeningResponse is returned to API clients when viewing job openings.
type JobOpeningResponse struct {
	ID               uint                    `json:"id"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	Status           string                  `json:"status"`
	HasRoundsStarted bool                    `json:"has_rounds_started"`
	RecruiterID      uint                    `json:"recruiter_id"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
	RoundTemplates   []RoundTemplateResponse `json:"round_templates,omitempty"`
}

// NewJobOpeningResponse converts a JobOpening model into a DTO.
func NewJobOpeningResponse(model models.JobOpening) JobOpeningResponse {
	response := JobOpeningResponse{
		ID:               model.ID,
		Title:            model.Title,
		Description:      model.Description,
		Status:           model.Status,
		HasRoundsStarted: model.HasRoundsStarted,
		RecruiterID:      model.RecruiterID,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}

	if len(model.RoundTemplates) > 0 {
		response.RoundTemplates = NewRoundTemplateResponseSlice(model.RoundTemplates)
	}

	return response
}

// NewJobOpeningResponseSlice converts job opening models into DTOs.
func NewJobOpeningResponseSlice(models []models.JobOpening) []JobOpeningResponse {
	responses := make([]JobOpeningResponse, 0, len(models))
	for _, job := range models {
		responses = append(responses, NewJobOpeningResponse(job))
	}

	return responses
}

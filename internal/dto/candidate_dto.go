package dto

import (
	"encoding/json"
	"time"

	"github.com/sparrowhq/talent-api/internal/models"
)

// CandidateCreateRequest describes the payload for adding a candidate to a job.
type CandidateCreateRequest struct {
	JobOpeningID uint                      `json:"job_opening_id" validate:"required,gt=0"`
	Name         string                    `json:"name" validate:"required,min=2,max=255"`
	Email        string                    `json:"email" validate:"required,email"`
	Phone        string                    `json:"phone" validate:"omitempty,max=32"`
	CustomFields []models.CustomFieldValue `json:"custom_fields" validate:"omitempty,dive"`
}

// CandidateResponse is returned to API clients when viewing candidates.
type CandidateResponse struct {
	ID           uint                      `json:"id"`
	JobOpeningID uint                      `json:"job_opening_id"`
	Name         string                    `json:"name"`
	Email        string                    `json:"email"`
	Phone        string                    `json:"phone"`
	CustomFields []models.CustomFieldValue `json:"custom_fields,omitempty"`
	Score        *float64                  `json:"score,omitempty"`
	Rounds       []CandidateRoundResponse  `json:"rounds,omitempty"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// AggregatedCandidate is a candidate merged from a multi-job view, tagged
// with its source job so downstream consumers can resolve per-job settings.
type AggregatedCandidate struct {
	CandidateResponse
	JobID              uint   `json:"job_id"`
	JobTitle           string `json:"job_title"`
	JobRoundTemplateID uint   `json:"job_round_template_id"`
	AssessmentID       string `json:"assessment_id,omitempty"`
}

// NewCandidateResponse converts a Candidate model into a DTO.
func NewCandidateResponse(model models.Candidate) CandidateResponse {
	response := CandidateResponse{
		ID:           model.ID,
		JobOpeningID: model.JobOpeningID,
		Name:         model.Name,
		Email:        model.Email,
		Phone:        model.Phone,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	if len(model.CustomFields) > 0 {
		var fields []models.CustomFieldValue
		if err := json.Unmarshal(model.CustomFields, &fields); err == nil {
			response.CustomFields = fields
		}
	}

	if len(model.Rounds) > 0 {
		response.Rounds = NewCandidateRoundResponseSlice(model.Rounds)
		response.Score = bestScore(model.Rounds)
	}

	return response
}

// NewCandidateResponseSlice converts candidate models into DTOs.
func NewCandidateResponseSlice(models []models.Candidate) []CandidateResponse {
	responses := make([]CandidateResponse, 0, len(models))
	for _, candidate := range models {
		responses = append(responses, NewCandidateResponse(candidate))
	}

	return responses
}

// bestScore picks the latest evaluated round's overall score, if any.
func bestScore(rounds []models.CandidateRound) *float64 {
	var score *float64
	for _, round := range rounds {
		if round.Evaluation != nil {
			value := round.Evaluation.OverallPercentageScore
			score = &value
		}
	}

	return score
}

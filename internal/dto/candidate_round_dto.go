package dto

import (
	"time"

	"github.com/sparrowhq/talent-api/internal/models"
)

// CandidateRoundResponse is returned when viewing a candidate's round entry.
type CandidateRoundResponse struct {
	ID                 uint                `json:"id"`
	CandidateID        uint                `json:"candidate_id"`
	JobRoundTemplateID uint                `json:"job_round_template_id"`
	Status             string              `json:"status"`
	IsEvaluation       bool                `json:"is_evaluation"`
	CreatedBy          uint                `json:"created_by"`
	Evaluation         *EvaluationResponse `json:"evaluation,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// EvaluationResponse serializes a stored evaluation result.
type EvaluationResponse struct {
	ID                     uint                   `json:"id"`
	CandidateRoundID       uint                   `json:"candidate_round_id"`
	OverallPercentageScore float64                `json:"overall_percentage_score"`
	CompetencyScores       map[string]interface{} `json:"competency_scores,omitempty"`
	Summary                string                 `json:"summary"`
	CreatedAt              time.Time              `json:"created_at"`
}

// NewCandidateRoundResponse converts a CandidateRound model into a DTO.
func NewCandidateRoundResponse(model models.CandidateRound) CandidateRoundResponse {
	response := CandidateRoundResponse{
		ID:                 model.ID,
		CandidateID:        model.CandidateID,
		JobRoundTemplateID: model.JobRoundTemplateID,
		Status:             model.Status,
		IsEvaluation:       model.IsEvaluation,
		CreatedBy:          model.CreatedBy,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}

	if model.Evaluation != nil {
		evaluation := NewEvaluationResponse(*model.Evaluation)
		response.Evaluation = &evaluation
	}

	return response
}

// NewCandidateRoundResponseSlice converts candidate round models into DTOs.
func NewCandidateRoundResponseSlice(models []models.CandidateRound) []CandidateRoundResponse {
	responses := make([]CandidateRoundResponse, 0, len(models))
	for _, round := range models {
		responses = append(responses, NewCandidateRoundResponse(round))
	}

	return responses
}

// NewEvaluationResponse converts an Evaluation model into a DTO.
func NewEvaluationResponse(model models.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:                     model.ID,
		CandidateRoundID:       model.CandidateRoundID,
		OverallPercentageScore: model.OverallPercentageScore,
		CompetencyScores:       model.CompetencyScores,
		Summary:                model.Summary,
		CreatedAt:              model.CreatedAt,
	}
}

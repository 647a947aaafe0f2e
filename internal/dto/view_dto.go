package dto

import (
	"encoding/json"
	"time"

	"github.com/sparrowhq/talent-api/internal/models"
)

// ViewCreateRequest describes the payload for creating a cross-job view.
type ViewCreateRequest struct {
	Title         string `json:"title" validate:"required,min=2,max=255"`
	JobOpeningIDs []uint `json:"job_opening_ids" validate:"required,min=1,dive,gt=0"`
}

// ViewResponse is returned to API clients when viewing saved views.
type ViewResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	CreatedBy     uint      `json:"created_by"`
	JobOpeningIDs []uint    `json:"job_opening_ids"`
	CreatedAt     time.Time `json:"created_at"`
}

// ViewAggregationResponse is the merged candidate list for one round across
// every job a view spans.
type ViewAggregationResponse struct {
	ViewID     uint                  `json:"view_id"`
	RoundType  string                `json:"round_type"`
	RoundName  string                `json:"round_name,omitempty"`
	Candidates []AggregatedCandidate `json:"candidates"`
	JobErrors  map[uint]string       `json:"job_errors,omitempty"`
	CacheHit   bool                  `json:"cache_hit"`
}

// NewViewResponse converts a View model into a DTO.
func NewViewResponse(model models.View) ViewResponse {
	response := ViewResponse{
		ID:        model.ID,
		Title:     model.Title,
		CreatedBy: model.CreatedBy,
		CreatedAt: model.CreatedAt,
	}

	if len(model.JobOpeningIDs) > 0 {
		var ids []uint
		if err := json.Unmarshal(model.JobOpeningIDs, &ids); err == nil {
			response.JobOpeningIDs = ids
		}
	}

	return response
}

// NewViewResponseSlice converts view models into DTOs.
func NewViewResponseSlice(models []models.View) []ViewResponse {
	responses := make([]ViewResponse, 0, len(models))
	for _, view := range models {
		responses = append(responses, NewViewResponse(view))
	}

	return responses
}

package dto

import "time"

// Evaluation run states.
const (
	RunStateIdle       = "idle"
	RunStateFetching   = "fetching_candidates"
	RunStateEvaluating = "evaluating"
	RunStateCompleted  = "completed"
	RunStateError      = "error"
)

// EvaluationRunResponse reports the live or final state of a bulk evaluation run.
type EvaluationRunResponse struct {
	JobRoundTemplateID uint       `json:"job_round_template_id"`
	State              string     `json:"state"`
	Total              int        `json:"total"`
	Completed          int        `json:"completed"`
	SuccessCount       int        `json:"success_count"`
	FailedCount        int        `json:"failed_count"`
	MissedRoundCount   int        `json:"missed_round_count"`
	StartedAt          time.Time  `json:"started_at"`
	FinishedAt         *time.Time `json:"finished_at,omitempty"`
	Error              string     `json:"error,omitempty"`
}

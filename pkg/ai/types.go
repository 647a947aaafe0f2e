package ai

import (
	"context"
	"errors"
)

// ErrRoundNotAttempted indicates the candidate never took the round, so there
// is nothing to score. Callers treat this differently from a pipeline failure.
var ErrRoundNotAttempted = errors.New("candidate did not attempt the round")

// EvaluationInput contains the artefacts needed to score one candidate round.
type EvaluationInput struct {
	CandidateName string
	RoundName     string
	RoundType     string
	AssessmentID  string
	BrandID       string
	Transcript    string
	Competencies  []string
}

// EvaluationResult is the structured scoring returned by the AI evaluator.
type EvaluationResult struct {
	OverallPercentageScore float64                `json:"overall_percentage_score"`
	CompetencyScores       map[string]interface{} `json:"competency_scores,omitempty"`
	Summary                string                 `json:"summary"`
	Raw                    map[string]interface{} `json:"raw,omitempty"`
}

// Evaluator describes a model capable of scoring a candidate's round performance.
type Evaluator interface {
	Evaluate(ctx context.Context, input EvaluationInput) (EvaluationResult, error)
}

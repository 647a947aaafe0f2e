package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/models"
	"github.com/sparrowhq/talent-api/internal/observability"
	"github.com/sparrowhq/talent-api/internal/repository"
	"github.com/sparrowhq/talent-api/pkg/ai"
)

// ErrRunInProgress indicates a bulk evaluation run is already in flight for
// the round; a second run for the same round is rejected rather than raced.
var ErrRunInProgress = errors.New("evaluation run already in progress for round")

// ErrRunNotFound indicates no run has ever been started for the round.
var ErrRunNotFound = errors.New("no evaluation run for round")

// Per-candidate evaluation outcomes.
const (
	outcomeSuccess     = "success"
	outcomeFailed      = "failed"
	outcomeMissedRound = "missed_round"
)

// EvaluationService runs bulk evaluations over a round's unevaluated
// candidates: fixed-size batches per round type, one evaluator call per
// candidate fanned out inside each batch, and a pause between batches to
// bound evaluator load.
type EvaluationService interface {
	StartRun(ctx context.Context, actor, templateID uint) (dto.EvaluationRunResponse, error)
	GetRun(templateID uint) (dto.EvaluationRunResponse, error)
}

type evaluationRun struct {
	state            string
	total            int
	completed        int
	successCount     int
	failedCount      int
	missedRoundCount int
	startedAt        time.Time
	finishedAt       *time.Time
	err              string
}

type evaluationService struct {
	templates  repository.RoundTemplateRepository
	rounds     repository.CandidateRoundRepository
	settings   RoundSettingService
	events     ProgressEventService
	evaluator  ai.Evaluator
	batchDelay time.Duration
	logger     zerolog.Logger

	mu   sync.Mutex
	runs map[uint]*evaluationRun

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// NewEvaluationService constructs an EvaluationService instance.
func NewEvaluationService(templates repository.RoundTemplateRepository, rounds repository.CandidateRoundRepository, settings RoundSettingService, events ProgressEventService, evaluator ai.Evaluator, batchDelay time.Duration, logger zerolog.Logger) EvaluationService {
	if batchDelay <= 0 {
		batchDelay = time.Second
	}

	return &evaluationService{
		templates:  templates,
		rounds:     rounds,
		settings:   settings,
		events:     events,
		evaluator:  evaluator,
		batchDelay: batchDelay,
		logger:     logger.With().Str("component", "evaluation_service").Logger(),
		runs:       make(map[uint]*evaluationRun),
		sleep:      time.Sleep,
	}
}

// StartRun kicks off a bulk evaluation for the round and drives it to
// completion before returning. Candidates already carrying an evaluation are
// never re-evaluated; with nothing left to score the run completes
// immediately without a single evaluator call.
func (s *evaluationService) StartRun(ctx context.Context, actor, templateID uint) (dto.EvaluationRunResponse, error) {
	if actor == 0 {
		return dto.EvaluationRunResponse{}, ErrActorRequired
	}

	template, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationRunResponse{}, ErrTemplateNotFound
		}
		return dto.EvaluationRunResponse{}, err
	}

	run, err := s.beginRun(templateID)
	if err != nil {
		return dto.EvaluationRunResponse{}, err
	}

	response := s.execute(ctx, actor, template, run)

	return response, nil
}

// GetRun reports the current or final state of the round's latest run.
func (s *evaluationService) GetRun(templateID uint) (dto.EvaluationRunResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[templateID]
	if !ok {
		return dto.EvaluationRunResponse{}, ErrRunNotFound
	}

	return snapshotRun(templateID, run), nil
}

// beginRun claims the round's run slot. Runs for other rounds are tracked
// independently, but re-entry for the same round while in flight is refused.
func (s *evaluationService) beginRun(templateID uint) (*evaluationRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.runs[templateID]; ok {
		if existing.state == dto.RunStateFetching || existing.state == dto.RunStateEvaluating {
			return nil, ErrRunInProgress
		}
	}

	run := &evaluationRun{state: dto.RunStateFetching, startedAt: time.Now().UTC()}
	s.runs[templateID] = run

	return run, nil
}

func (s *evaluationService) execute(ctx context.Context, actor uint, template models.JobRoundTemplate, run *evaluationRun) dto.EvaluationRunResponse {
	cohort, err := s.rounds.ListByTemplate(ctx, template.ID)
	if err != nil {
		return s.finishWithError(template.ID, run, err)
	}

	pending := make([]models.CandidateRound, 0, len(cohort))
	for _, round := range cohort {
		if !round.IsEvaluation {
			pending = append(pending, round)
		}
	}

	s.mu.Lock()
	run.total = len(pending)
	run.state = dto.RunStateEvaluating
	s.mu.Unlock()

	if len(pending) == 0 {
		return s.finish(ctx, actor, template, run)
	}

	assessmentID := ""
	if resolved, err := s.settings.Resolve(ctx, template.ID, models.SettingKeyAssessmentID); err == nil {
		assessmentID = resolved.Value
	}

	brandID := ""
	if template.Type != models.RoundTypeInterview {
		if resolved, err := s.settings.Resolve(ctx, template.ID, models.SettingKeyBrandID); err == nil {
			brandID = resolved.Value
		}
	}

	batchSize := template.EvaluationBatchSize()
	for start := 0; start < len(pending); start += batchSize {
		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		s.runBatch(ctx, template, run, batch, assessmentID, brandID)

		s.mu.Lock()
		run.completed += len(batch)
		s.mu.Unlock()
		s.publishProgress(ctx, actor, template.ID, run)

		if end < len(pending) {
			s.sleep(s.batchDelay)
		}
	}

	return s.finish(ctx, actor, template, run)
}

// runBatch fans out one evaluator call per candidate and waits for the whole
// batch. Each call is recovered independently so a single candidate's failure
// cannot abort the batch.
func (s *evaluationService) runBatch(ctx context.Context, template models.JobRoundTemplate, run *evaluationRun, batch []models.CandidateRound, assessmentID, brandID string) {
	var wg sync.WaitGroup

	for _, round := range batch {
		wg.Add(1)
		go func(round models.CandidateRound) {
			defer wg.Done()

			outcome := s.evaluateCandidate(ctx, template, round, assessmentID, brandID)

			observability.EvaluationOutcomes().WithLabelValues(outcome).Inc()

			s.mu.Lock()
			switch outcome {
			case outcomeSuccess:
				run.successCount++
			case outcomeMissedRound:
				run.missedRoundCount++
			default:
				run.failedCount++
			}
			s.mu.Unlock()
		}(round)
	}

	wg.Wait()
}

func (s *evaluationService) evaluateCandidate(ctx context.Context, template models.JobRoundTemplate, round models.CandidateRound, assessmentID, brandID string) string {
	result, err := s.evaluator.Evaluate(ctx, ai.EvaluationInput{
		CandidateName: round.Candidate.Name,
		RoundName:     template.Name,
		RoundType:     template.Type,
		AssessmentID:  assessmentID,
		BrandID:       brandID,
		Transcript:    transcriptFor(round),
	})
	if err != nil {
		outcome := classifyEvaluationError(err)
		s.logger.Warn().Err(err).Uint("candidate_round_id", round.ID).Str("outcome", outcome).Msg("candidate evaluation failed")
		return outcome
	}

	evaluation := models.Evaluation{
		OverallPercentageScore: result.OverallPercentageScore,
		CompetencyScores:       result.CompetencyScores,
		Summary:                result.Summary,
		Transcript:             transcriptFor(round),
	}

	if err := s.rounds.MarkEvaluated(ctx, round.ID, &evaluation); err != nil {
		s.logger.Error().Err(err).Uint("candidate_round_id", round.ID).Msg("failed to persist evaluation")
		return outcomeFailed
	}

	return outcomeSuccess
}

func (s *evaluationService) publishProgress(ctx context.Context, actor, templateID uint, run *evaluationRun) {
	if s.events == nil {
		return
	}

	s.mu.Lock()
	completed, total := run.completed, run.total
	s.mu.Unlock()

	if _, err := s.events.Publish(ctx, dto.ProgressEventCreateRequest{
		RecipientID: actor,
		Type:        models.EventTypeEvaluationProgress,
		Message:     fmt.Sprintf("Evaluated %d of %d candidates", completed, total),
		Metadata: map[string]interface{}{
			"job_round_template_id": templateID,
			"completed":             completed,
			"total":                 total,
		},
	}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish evaluation progress")
	}
}

func (s *evaluationService) finish(ctx context.Context, actor uint, template models.JobRoundTemplate, run *evaluationRun) dto.EvaluationRunResponse {
	now := time.Now().UTC()

	s.mu.Lock()
	run.state = dto.RunStateCompleted
	run.finishedAt = &now
	response := snapshotRun(template.ID, run)
	s.mu.Unlock()

	observability.EvaluationRuns().WithLabelValues(dto.RunStateCompleted).Inc()

	if s.events != nil && response.Total > 0 {
		if _, err := s.events.Publish(ctx, dto.ProgressEventCreateRequest{
			RecipientID: actor,
			Type:        models.EventTypeEvaluationCompleted,
			Message: fmt.Sprintf("Evaluation finished for %q: %d scored, %d failed, %d missed the round",
				template.Name, response.SuccessCount, response.FailedCount, response.MissedRoundCount),
			Metadata: map[string]interface{}{
				"job_round_template_id": template.ID,
				"success_count":         response.SuccessCount,
				"failed_count":          response.FailedCount,
				"missed_round_count":    response.MissedRoundCount,
			},
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish evaluation completion")
		}
	}

	return response
}

func (s *evaluationService) finishWithError(templateID uint, run *evaluationRun, cause error) dto.EvaluationRunResponse {
	now := time.Now().UTC()

	s.mu.Lock()
	run.state = dto.RunStateError
	run.err = cause.Error()
	run.finishedAt = &now
	response := snapshotRun(templateID, run)
	s.mu.Unlock()

	observability.EvaluationRuns().WithLabelValues(dto.RunStateError).Inc()
	s.logger.Error().Err(cause).Uint("template_id", templateID).Msg("evaluation run failed")

	return response
}

func snapshotRun(templateID uint, run *evaluationRun) dto.EvaluationRunResponse {
	return dto.EvaluationRunResponse{
		JobRoundTemplateID: templateID,
		State:              run.state,
		Total:              run.total,
		Completed:          run.completed,
		SuccessCount:       run.successCount,
		FailedCount:        run.failedCount,
		MissedRoundCount:   run.missedRoundCount,
		StartedAt:          run.startedAt,
		FinishedAt:         run.finishedAt,
		Error:              run.err,
	}
}

// transcriptFor pulls whatever performance artefact the round stored for the
// candidate. Rounds the candidate never attempted have nothing to score.
func transcriptFor(round models.CandidateRound) string {
	if round.Evaluation != nil {
		return round.Evaluation.Transcript
	}

	var fields []models.CustomFieldValue
	if len(round.Candidate.CustomFields) > 0 {
		_ = json.Unmarshal(round.Candidate.CustomFields, &fields)
	}
	for _, field := range fields {
		if field.Key == "transcript" {
			return field.Value
		}
	}

	return ""
}

// classifyEvaluationError is the single place where evaluator failures are
// sorted into candidate-missed-the-round versus pipeline failure. Typed
// errors are checked first; the substring heuristics below exist only for
// upstream services that still report these conditions as plain text.
func classifyEvaluationError(err error) string {
	if errors.Is(err, ai.ErrRoundNotAttempted) {
		return outcomeMissedRound
	}

	message := strings.ToLower(err.Error())
	for _, marker := range []string{"404", "not found", "assessment retrieval failed"} {
		if strings.Contains(message, marker) {
			return outcomeMissedRound
		}
	}

	return outcomeFailed
}

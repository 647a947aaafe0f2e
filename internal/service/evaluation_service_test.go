package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/models"
	"github.com/sparrowhq/talent-api/internal/repository"
	"github.com/sparrowhq/talent-api/pkg/ai"
)

type stubEvaluator struct {
	mu    sync.Mutex
	calls int
	// errs maps candidate name to the error the evaluator should return.
	errs map[string]error
}

func (s *stubEvaluator) Evaluate(_ context.Context, input ai.EvaluationInput) (ai.EvaluationResult, error) {
	s.mu.Lock()
	s.calls++
	err := s.errs[input.CandidateName]
	s.mu.Unlock()

	if err != nil {
		return ai.EvaluationResult{}, err
	}
	if input.Transcript == "" {
		return ai.EvaluationResult{}, ai.ErrRoundNotAttempted
	}

	return ai.EvaluationResult{OverallPercentageScore: 82, Summary: "solid"}, nil
}

func (s *stubEvaluator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func setupEvaluationService(t *testing.T) (*gorm.DB, *evaluationService, *stubEvaluator, *stubEventService) {
	t.Helper()

	db := newTestDB(t, "evaluation_service")
	evaluator := &stubEvaluator{errs: map[string]error{}}
	events := &stubEventService{}

	svc := NewEvaluationService(
		repository.NewRoundTemplateRepository(db),
		repository.NewCandidateRoundRepository(db),
		NewRoundSettingService(repository.NewRoundSettingRepository(db), repository.NewRoundTemplateRepository(db), testValidator(), testLogger()),
		events,
		evaluator,
		time.Millisecond,
		testLogger(),
	)

	concrete := svc.(*evaluationService)
	concrete.sleep = func(time.Duration) {}

	return db, concrete, evaluator, events
}

func seedRoundWithTranscript(t *testing.T, db *gorm.DB, jobID, templateID uint, name, transcript string) models.CandidateRound {
	t.Helper()

	fields, err := json.Marshal([]models.CustomFieldValue{{Key: "transcript", Value: transcript}})
	require.NoError(t, err)

	candidate := models.Candidate{
		JobOpeningID: jobID,
		Name:         name,
		Email:        fmt.Sprintf("%s_%d@example.com", name, time.Now().UnixNano()),
		CustomFields: fields,
	}
	require.NoError(t, db.Create(&candidate).Error)

	return seedRound(t, db, candidate.ID, templateID, models.CandidateStatusActionPending)
}

func TestEvaluationRunScoresPendingCandidates(t *testing.T) {
	db, svc, evaluator, events := setupEvaluationService(t)

	job := seedJob(t, db, "Backend Engineer")
	template := seedTemplate(t, db, job.ID, "Technical", models.RoundTypeInterview, 1)
	round := seedRoundWithTranscript(t, db, job.ID, template.ID, "alice", "talked about goroutines")

	run, err := svc.StartRun(context.Background(), 7, template.ID)
	require.NoError(t, err)
	require.Equal(t, dto.RunStateCompleted, run.State)
	require.Equal(t, 1, run.Total)
	require.Equal(t, 1, run.SuccessCount)
	require.Zero(t, run.FailedCount)
	require.Equal(t, 1, evaluator.callCount())

	var persisted models.CandidateRound
	require.NoError(t, db.Preload("Evaluation").First(&persisted, round.ID).Error)
	require.True(t, persisted.IsEvaluation)
	require.NotNil(t, persisted.Evaluation)
	require.EqualValues(t, 82, persisted.Evaluation.OverallPercentageScore)

	// One progress event per batch plus the completion event.
	require.Len(t, events.published, 2)
	require.Equal(t, models.EventTypeEvaluationCompleted, events.published[1].Type)
}

func TestEvaluationRunSkipsAlreadyEvaluated(t *testing.T) {
	db, svc, evaluator, _ := setupEvaluationService(t)

	job := seedJob(t, db, "Backend Engineer")
	template := seedTemplate(t, db, job.ID, "Technical", models.RoundTypeInterview, 1)
	round := seedRoundWithTranscript(t, db, job.ID, template.ID, "alice", "transcript")
	require.NoError(t, db.Model(&models.CandidateRound{}).Where("id = ?", round.ID).Update("is_evaluation", true).Error)

	run, err := svc.StartRun(context.Background(), 7, template.ID)
	require.NoError(t, err)
	require.Equal(t, dto.RunStateCompleted, run.State)
	require.Zero(t, run.Total)
	require.Zero(t, evaluator.callCount())
}

func TestEvaluationRunBatchesByRoundType(t *testing.T) {
	db, svc, evaluator, _ := setupEvaluationService(t)

	job := seedJob(t, db, "Backend Engineer")
	template := seedTemplate(t, db, job.ID, "Technical", models.RoundTypeInterview, 1)

	// 40 pending candidates at interview batch size 18 means three batches
	// and two inter-batch pauses.
	for i := 0; i < 40; i++ {
		seedRoundWithTranscript(t, db, job.ID, template.ID, fmt.Sprintf("candidate%02d", i), "spoke at length")
	}

	var pauses int
	svc.sleep = func(time.Duration) { pauses++ }

	run, err := svc.StartRun(context.Background(), 7, template.ID)
	require.NoError(t, err)
	require.Equal(t, dto.RunStateCompleted, run.State)
	require.Equal(t, 40, run.Total)
	require.Equal(t, 40, run.Completed)
	require.Equal(t, 40, run.SuccessCount)
	require.Equal(t, 40, evaluator.callCount())
	require.Equal(t, 2, pauses)
}

func TestEvaluationRunClassifiesOutcomes(t *testing.T) {
	db, svc, _, _ := setupEvaluationService(t)

	job := seedJob(t, db, "Backend Engineer")
	template := seedTemplate(t, db, job.ID, "Technical", models.RoundTypeInterview, 1)

	seedRoundWithTranscript(t, db, job.ID, template.ID, "scored", "good answers")
	seedRoundWithTranscript(t, db, job.ID, template.ID, "absent", "")
	missed := seedRoundWithTranscript(t, db, job.ID, template.ID, "missed", "attempted")
	broken := seedRoundWithTranscript(t, db, job.ID, template.ID, "broken", "attempted")

	evaluator := &stubEvaluator{errs: map[string]error{
		"missed": errors.New("assessment retrieval failed: upstream returned 404"),
		"broken": errors.New("rate limit exceeded"),
	}}
	svc.evaluator = evaluator

	run, err := svc.StartRun(context.Background(), 7, template.ID)
	require.NoError(t, err)
	require.Equal(t, dto.RunStateCompleted, run.State)
	require.Equal(t, 4, run.Total)
	require.Equal(t, 1, run.SuccessCount)
	require.Equal(t, 2, run.MissedRoundCount)
	require.Equal(t, 1, run.FailedCount)

	// Failed candidates keep their unevaluated state.
	var unevaluated models.CandidateRound
	require.NoError(t, db.First(&unevaluated, missed.ID).Error)
	require.False(t, unevaluated.IsEvaluation)
	unevaluated = models.CandidateRound{}
	require.NoError(t, db.First(&unevaluated, broken.ID).Error)
	require.False(t, unevaluated.IsEvaluation)
}

func TestEvaluationRunRefusesReentry(t *testing.T) {
	db, svc, _, _ := setupEvaluationService(t)

	job := seedJob(t, db, "Backend Engineer")
	template := seedTemplate(t, db, job.ID, "Technical", models.RoundTypeInterview, 1)

	svc.mu.Lock()
	svc.runs[template.ID] = &evaluationRun{state: dto.RunStateEvaluating, startedAt: time.Now().UTC()}
	svc.mu.Unlock()

	_, err := svc.StartRun(context.Background(), 7, template.ID)
	require.ErrorIs(t, err, ErrRunInProgress)

	// A second round is unaffected by the first round's in-flight run.
	other := seedTemplate(t, db, job.ID, "Culture", models.RoundTypeInterview, 2)
	run, err := svc.StartRun(context.Background(), 7, other.ID)
	require.NoError(t, err)
	require.Equal(t, dto.RunStateCompleted, run.State)
}

func TestEvaluationRunRequiresActor(t *testing.T) {
	_, svc, _, _ := setupEvaluationService(t)

	_, err := svc.StartRun(context.Background(), 0, 1)
	require.ErrorIs(t, err, ErrActorRequired)
}

func TestGetRunUnknownRound(t *testing.T) {
	_, svc, _, _ := setupEvaluationService(t)

	_, err := svc.GetRun(99)
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestClassifyEvaluationError(t *testing.T) {
	require.Equal(t, outcomeMissedRound, classifyEvaluationError(ai.ErrRoundNotAttempted))
	require.Equal(t, outcomeMissedRound, classifyEvaluationError(errors.New("item not found")))
	require.Equal(t, outcomeMissedRound, classifyEvaluationError(errors.New("HTTP 404 from assessment host")))
	require.Equal(t, outcomeMissedRound, classifyEvaluationError(errors.New("assessment retrieval failed")))
	require.Equal(t, outcomeFailed, classifyEvaluationError(errors.New("connection reset")))
}

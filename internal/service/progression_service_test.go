package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/models"
	"github.com/sparrowhq/talent-api/internal/repository"
)

type stubEventService struct {
	published []dto.ProgressEventCreateRequest
}

func (s *stubEventService) Publish(_ context.Context, payload dto.ProgressEventCreateRequest) (dto.ProgressEventResponse, error) {
	s.published = append(s.published, payload)
	return dto.ProgressEventResponse{Type: payload.Type, RecipientID: payload.RecipientID}, nil
}

func (s *stubEventService) List(context.Context, uint, int, int) ([]dto.ProgressEventResponse, error) {
	return nil, nil
}

func (s *stubEventService) MarkRead(context.Context, uint, uint) (dto.ProgressEventResponse, error) {
	return dto.ProgressEventResponse{}, nil
}

func (s *stubEventService) Subscribe(uint) (<-chan dto.ProgressEventResponse, func()) {
	ch := make(chan dto.ProgressEventResponse)
	close(ch)
	return ch, func() {}
}

func (s *stubEventService) Start(context.Context) {}

func setupProgressionService(t *testing.T) (*gorm.DB, ProgressionService, *stubEventService) {
	t.Helper()

	db := newTestDB(t, "progression_service")
	events := &stubEventService{}
	svc := NewProgressionService(
		repository.NewRoundTemplateRepository(db),
		repository.NewCandidateRoundRepository(db),
		repository.NewProgressionRepository(db),
		events,
		testValidator(),
		testLogger(),
	)

	return db, svc, events
}

func TestProgressRoundCarriesCohortForward(t *testing.T) {
	db, svc, events := setupProgressionService(t)

	job := seedJob(t, db, "Backend Engineer")
	screening := seedTemplate(t, db, job.ID, "Screening", models.RoundTypeInterview, 1)
	technical := seedTemplate(t, db, job.ID, "Technical", models.RoundTypeInterview, 2)
	alice := seedCandidate(t, db, job.ID, "alice")
	bob := seedCandidate(t, db, job.ID, "bob")
	seedRound(t, db, alice.ID, screening.ID, models.CandidateStatusSelected)
	seedRound(t, db, bob.ID, screening.ID, "")

	result, err := svc.ProgressRound(context.Background(), 7, dto.ProgressRoundRequest{
		JobOpeningID:      job.ID,
		CurrentTemplateID: screening.ID,
		IdempotencyKey:    "progress-key-1",
	})
	require.NoError(t, err)
	require.False(t, result.Replayed)
	require.Equal(t, screening.ID, result.FromTemplateID)
	require.Equal(t, technical.ID, result.ToTemplateID)
	require.Equal(t, 2, result.CandidateCount)

	// Statuses carry into the next round; a missing decision lands as action_pending.
	var carried models.CandidateRound
	require.NoError(t, db.Where("candidate_id = ? AND job_round_template_id = ?", alice.ID, technical.ID).First(&carried).Error)
	require.Equal(t, models.CandidateStatusSelected, carried.Status)

	carried = models.CandidateRound{}
	require.NoError(t, db.Where("candidate_id = ? AND job_round_template_id = ?", bob.ID, technical.ID).First(&carried).Error)
	require.Equal(t, models.CandidateStatusActionPending, carried.Status)

	var next models.JobRoundTemplate
	require.NoError(t, db.First(&next, technical.ID).Error)
	require.True(t, next.IsActive)

	require.Len(t, events.published, 1)
	require.Equal(t, models.EventTypeRoundProgressed, events.published[0].Type)
}

func TestProgressRoundReplaySameKey(t *testing.T) {
	db, svc, _ := setupProgressionService(t)

	job := seedJob(t, db, "Backend Engineer")
	screening := seedTemplate(t, db, job.ID, "Screening", models.RoundTypeInterview, 1)
	technical := seedTemplate(t, db, job.ID, "Technical", models.RoundTypeInterview, 2)
	alice := seedCandidate(t, db, job.ID, "alice")
	seedRound(t, db, alice.ID, screening.ID, models.CandidateStatusSelected)

	payload := dto.ProgressRoundRequest{
		JobOpeningID:      job.ID,
		CurrentTemplateID: screening.ID,
		IdempotencyKey:    "progress-key-2",
	}

	first, err := svc.ProgressRound(context.Background(), 7, payload)
	require.NoError(t, err)
	require.False(t, first.Replayed)

	second, err := svc.ProgressRound(context.Background(), 7, payload)
	require.NoError(t, err)
	require.True(t, second.Replayed)
	require.Equal(t, first.ToTemplateID, second.ToTemplateID)
	require.Equal(t, first.CandidateCount, second.CandidateCount)

	// The replay moved nobody twice.
	var count int64
	require.NoError(t, db.Model(&models.CandidateRound{}).
		Where("job_round_template_id = ?", technical.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestProgressRoundRequiresActor(t *testing.T) {
	_, svc, _ := setupProgressionService(t)

	_, err := svc.ProgressRound(context.Background(), 0, dto.ProgressRoundRequest{
		JobOpeningID:      1,
		CurrentTemplateID: 1,
		IdempotencyKey:    "progress-key-3",
	})
	require.ErrorIs(t, err, ErrActorRequired)
}

func TestProgressRoundLastRound(t *testing.T) {
	db, svc, _ := setupProgressionService(t)

	job := seedJob(t, db, "Backend Engineer")
	final := seedTemplate(t, db, job.ID, "Final", models.RoundTypeInterview, 1)
	alice := seedCandidate(t, db, job.ID, "alice")
	seedRound(t, db, alice.ID, final.ID, models.CandidateStatusSelected)

	_, err := svc.ProgressRound(context.Background(), 7, dto.ProgressRoundRequest{
		JobOpeningID:      job.ID,
		CurrentTemplateID: final.ID,
		IdempotencyKey:    "progress-key-4",
	})
	require.ErrorIs(t, err, ErrLastRound)
}

func TestProgressRoundEmptyCohort(t *testing.T) {
	db, svc, _ := setupProgressionService(t)

	job := seedJob(t, db, "Backend Engineer")
	screening := seedTemplate(t, db, job.ID, "Screening", models.RoundTypeInterview, 1)
	seedTemplate(t, db, job.ID, "Technical", models.RoundTypeInterview, 2)

	_, err := svc.ProgressRound(context.Background(), 7, dto.ProgressRoundRequest{
		JobOpeningID:      job.ID,
		CurrentTemplateID: screening.ID,
		IdempotencyKey:    "progress-key-5",
	})
	require.ErrorIs(t, err, ErrEmptyRound)
}

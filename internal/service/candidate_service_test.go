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

func setupCandidateService(t *testing.T) (*gorm.DB, CandidateService) {
	t.Helper()

	db := newTestDB(t, "candidate_service")
	svc := NewCandidateService(
		repository.NewCandidateRepository(db),
		repository.NewJobOpeningRepository(db),
		testValidator(),
		testLogger(),
	)

	return db, svc
}

func TestCandidateCreateAndGet(t *testing.T) {
	db, svc := setupCandidateService(t)

	job := seedJob(t, db, "Backend Engineer")

	created, err := svc.Create(context.Background(), dto.CandidateCreateRequest{
		JobOpeningID: job.ID,
		Name:         "Alice Example",
		Email:        "alice@example.com",
		CustomFields: []models.CustomFieldValue{{Key: "transcript", Label: "Transcript", Type: "text", Value: "hello"}},
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	fetched, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice Example", fetched.Name)
	require.Len(t, fetched.CustomFields, 1)
	require.Equal(t, "transcript", fetched.CustomFields[0].Key)
}

func TestCandidateCreateUnknownJob(t *testing.T) {
	_, svc := setupCandidateService(t)

	_, err := svc.Create(context.Background(), dto.CandidateCreateRequest{
		JobOpeningID: 12345,
		Name:         "Nobody Unknown",
		Email:        "nobody@example.com",
	})
	require.ErrorIs(t, err, ErrJobNotFound)
}

func TestCandidateListSortedByScore(t *testing.T) {
	db, svc := setupCandidateService(t)

	job := seedJob(t, db, "Backend Engineer")
	template := seedTemplate(t, db, job.ID, "Technical", models.RoundTypeInterview, 1)

	low := seedCandidate(t, db, job.ID, "low")
	unscored := seedCandidate(t, db, job.ID, "unscored")
	high := seedCandidate(t, db, job.ID, "high")

	seedEvaluatedRound(t, db, low.ID, template.ID, 35)
	seedRound(t, db, unscored.ID, template.ID, models.CandidateStatusActionPending)
	seedEvaluatedRound(t, db, high.ID, template.ID, 88)

	candidates, err := svc.ListByJob(context.Background(), job.ID, true)
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	require.Equal(t, "high", candidates[0].Name)
	require.Equal(t, "low", candidates[1].Name)
	require.Equal(t, "unscored", candidates[2].Name)
	require.Nil(t, candidates[2].Score)
}

func TestSortByScoreDescendingSentinel(t *testing.T) {
	score := func(v float64) *float64 { return &v }

	candidates := []dto.CandidateResponse{
		{Name: "none"},
		{Name: "zero", Score: score(0)},
		{Name: "top", Score: score(97.5)},
		{Name: "also-none"},
	}

	SortByScoreDescending(candidates)

	require.Equal(t, "top", candidates[0].Name)
	require.Equal(t, "zero", candidates[1].Name)
	// A real zero score still ranks above missing scores, and ties between
	// missing scores keep their input order.
	require.Equal(t, "none", candidates[2].Name)
	require.Equal(t, "also-none", candidates[3].Name)
}

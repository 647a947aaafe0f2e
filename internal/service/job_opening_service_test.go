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

func setupJobOpeningService(t *testing.T) (*gorm.DB, JobOpeningService) {
	t.Helper()

	db := newTestDB(t, "job_opening_service")
	svc := NewJobOpeningService(
		repository.NewJobOpeningRepository(db),
		repository.NewRoundTemplateRepository(db),
		testValidator(),
		testLogger(),
	)

	return db, svc
}

func TestJobOpeningCreateRequiresActor(t *testing.T) {
	_, svc := setupJobOpeningService(t)

	_, err := svc.Create(context.Background(), 0, dto.JobOpeningCreateRequest{Title: "Backend Engineer"})
	require.ErrorIs(t, err, ErrActorRequired)
}

func TestJobOpeningStartRounds(t *testing.T) {
	db, svc := setupJobOpeningService(t)

	job := models.JobOpening{Title: "Backend Engineer", Status: models.JobStatusDraft, RecruiterID: 7}
	require.NoError(t, db.Create(&job).Error)
	first := seedTemplate(t, db, job.ID, "Screening", models.RoundTypeInterview, 1)
	second := seedTemplate(t, db, job.ID, "Technical", models.RoundTypeInterview, 2)

	started, err := svc.StartRounds(context.Background(), 7, job.ID)
	require.NoError(t, err)
	require.True(t, started.HasRoundsStarted)
	require.Equal(t, models.JobStatusActive, started.Status)

	var reloadedFirst, reloadedSecond models.JobRoundTemplate
	require.NoError(t, db.First(&reloadedFirst, first.ID).Error)
	require.NoError(t, db.First(&reloadedSecond, second.ID).Error)
	require.True(t, reloadedFirst.IsActive)
	require.False(t, reloadedSecond.IsActive)

	// Starting twice is refused.
	_, err = svc.StartRounds(context.Background(), 7, job.ID)
	require.ErrorIs(t, err, ErrRoundsAlreadyStarted)
}

func TestJobOpeningStartRoundsWithoutTemplates(t *testing.T) {
	db, svc := setupJobOpeningService(t)

	job := models.JobOpening{Title: "Backend Engineer", Status: models.JobStatusDraft, RecruiterID: 7}
	require.NoError(t, db.Create(&job).Error)

	_, err := svc.StartRounds(context.Background(), 7, job.ID)
	require.ErrorIs(t, err, ErrNoRoundTemplates)
}

func TestJobOpeningUpdateAndDelete(t *testing.T) {
	db, svc := setupJobOpeningService(t)

	job := seedJob(t, db, "Backend Engineer")

	title := "Senior Backend Engineer"
	updated, err := svc.Update(context.Background(), job.ID, dto.JobOpeningUpdateRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, title, updated.Title)

	require.NoError(t, svc.Delete(context.Background(), job.ID))
	_, err = svc.Get(context.Background(), job.ID)
	require.ErrorIs(t, err, ErrJobNotFound)
}

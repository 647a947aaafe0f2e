package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/models"
	"github.com/sparrowhq/talent-api/internal/repository"
)

func setupDraftService(t *testing.T) (*gorm.DB, DraftService) {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	db := newTestDB(t, "draft_service")
	rounds := repository.NewCandidateRoundRepository(db)

	return db, NewDraftService(rounds, redisClient, time.Hour, testValidator(), testLogger())
}

func TestDraftServiceLoadSnapshotsRound(t *testing.T) {
	db, svc := setupDraftService(t)

	job := seedJob(t, db, "Backend Engineer")
	template := seedTemplate(t, db, job.ID, "Screening", models.RoundTypeInterview, 1)
	alice := seedCandidate(t, db, job.ID, "alice")
	bob := seedCandidate(t, db, job.ID, "bob")
	seedRound(t, db, alice.ID, template.ID, models.CandidateStatusSelected)
	seedRound(t, db, bob.ID, template.ID, models.CandidateStatusActionPending)

	draft, err := svc.Load(context.Background(), 7, template.ID)
	require.NoError(t, err)
	require.Equal(t, models.CandidateStatusSelected, draft.Original[alice.ID])
	require.Equal(t, models.CandidateStatusActionPending, draft.Original[bob.ID])
	require.Equal(t, draft.Original, draft.Current)
	require.False(t, draft.HasPendingChanges())
}

func TestDraftServicePendingDiffAndRevert(t *testing.T) {
	db, svc := setupDraftService(t)

	job := seedJob(t, db, "Backend Engineer")
	template := seedTemplate(t, db, job.ID, "Screening", models.RoundTypeInterview, 1)
	alice := seedCandidate(t, db, job.ID, "alice")
	seedRound(t, db, alice.ID, template.ID, models.CandidateStatusActionPending)

	_, err := svc.Load(context.Background(), 7, template.ID)
	require.NoError(t, err)

	// Edit diverges from the snapshot and shows up as pending.
	draft, err := svc.SetStatus(context.Background(), 7, template.ID, dto.DraftSetStatusRequest{
		CandidateID: alice.ID,
		Status:      models.CandidateStatusSelected,
	})
	require.NoError(t, err)
	require.True(t, draft.HasPendingChanges())
	require.Equal(t, models.CandidateStatusSelected, draft.Pending[alice.ID])
	require.Equal(t, models.CandidateStatusActionPending, draft.Original[alice.ID])

	// Reverting to the original status empties the diff again.
	draft, err = svc.SetStatus(context.Background(), 7, template.ID, dto.DraftSetStatusRequest{
		CandidateID: alice.ID,
		Status:      models.CandidateStatusActionPending,
	})
	require.NoError(t, err)
	require.False(t, draft.HasPendingChanges())
	require.Empty(t, draft.Pending)
}

func TestDraftServiceRejectsUnknownCandidate(t *testing.T) {
	db, svc := setupDraftService(t)

	job := seedJob(t, db, "Backend Engineer")
	template := seedTemplate(t, db, job.ID, "Screening", models.RoundTypeInterview, 1)
	alice := seedCandidate(t, db, job.ID, "alice")
	seedRound(t, db, alice.ID, template.ID, models.CandidateStatusActionPending)

	_, err := svc.Load(context.Background(), 7, template.ID)
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), 7, template.ID, dto.DraftSetStatusRequest{
		CandidateID: alice.ID + 100,
		Status:      models.CandidateStatusSelected,
	})
	require.ErrorIs(t, err, ErrUnknownCandidate)
}

func TestDraftServiceGetBeforeLoad(t *testing.T) {
	_, svc := setupDraftService(t)

	_, err := svc.Get(context.Background(), 7, 42)
	require.ErrorIs(t, err, ErrDraftNotLoaded)
}

func TestDraftServiceSavePersistsEveryCandidate(t *testing.T) {
	db, svc := setupDraftService(t)

	job := seedJob(t, db, "Backend Engineer")
	template := seedTemplate(t, db, job.ID, "Screening", models.RoundTypeInterview, 1)
	alice := seedCandidate(t, db, job.ID, "alice")
	bob := seedCandidate(t, db, job.ID, "bob")
	seedRound(t, db, alice.ID, template.ID, models.CandidateStatusActionPending)
	seedRound(t, db, bob.ID, template.ID, models.CandidateStatusActionPending)

	_, err := svc.Load(context.Background(), 7, template.ID)
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), 7, template.ID, dto.DraftSetStatusRequest{
		CandidateID: alice.ID,
		Status:      models.CandidateStatusRejected,
	})
	require.NoError(t, err)

	saved, err := svc.Save(context.Background(), 7, template.ID)
	require.NoError(t, err)
	require.False(t, saved.HasPendingChanges())
	require.Equal(t, models.CandidateStatusRejected, saved.Current[alice.ID])
	require.Equal(t, models.CandidateStatusActionPending, saved.Current[bob.ID])

	var persisted models.CandidateRound
	require.NoError(t, db.Where("candidate_id = ? AND job_round_template_id = ?", alice.ID, template.ID).First(&persisted).Error)
	require.Equal(t, models.CandidateStatusRejected, persisted.Status)

	// The overlay is gone after a save; the next edit needs a fresh load.
	_, err = svc.Get(context.Background(), 7, template.ID)
	require.ErrorIs(t, err, ErrDraftNotLoaded)
}

func TestDraftServiceLoadReplacesOverlay(t *testing.T) {
	db, svc := setupDraftService(t)

	job := seedJob(t, db, "Backend Engineer")
	template := seedTemplate(t, db, job.ID, "Screening", models.RoundTypeInterview, 1)
	alice := seedCandidate(t, db, job.ID, "alice")
	seedRound(t, db, alice.ID, template.ID, models.CandidateStatusActionPending)

	_, err := svc.Load(context.Background(), 7, template.ID)
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), 7, template.ID, dto.DraftSetStatusRequest{
		CandidateID: alice.ID,
		Status:      models.CandidateStatusSelected,
	})
	require.NoError(t, err)

	reloaded, err := svc.Load(context.Background(), 7, template.ID)
	require.NoError(t, err)
	require.False(t, reloaded.HasPendingChanges())
	require.Equal(t, models.CandidateStatusActionPending, reloaded.Current[alice.ID])
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/models"
	"github.com/sparrowhq/talent-api/internal/repository"
)

func setupEventService(t *testing.T) ProgressEventService {
	t.Helper()

	db := newTestDB(t, "event_service")

	return NewProgressEventService(
		repository.NewProgressEventRepository(db),
		nil,
		"",
		nil,
		testValidator(),
		testLogger(),
	)
}

func waitForEvent(t *testing.T, ch <-chan dto.ProgressEventResponse) dto.ProgressEventResponse {
	t.Helper()

	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for progress event")
		return dto.ProgressEventResponse{}
	}
}

func TestEventPublishBroadcastsToSubscribers(t *testing.T) {
	svc := setupEventService(t)

	events, cleanup := svc.Subscribe(7)
	defer cleanup()

	published, err := svc.Publish(context.Background(), dto.ProgressEventCreateRequest{
		RecipientID: 7,
		Type:        models.EventTypeRoundProgressed,
		Message:     "<b>Screening</b> cohort moved to Technical",
		Metadata:    map[string]interface{}{"job_id": float64(3)},
	})
	require.NoError(t, err)
	require.Equal(t, "Screening cohort moved to Technical", published.Message)
	require.False(t, published.Read)

	received := waitForEvent(t, events)
	require.Equal(t, published.ID, received.ID)
	require.Equal(t, models.EventTypeRoundProgressed, received.Type)

	listed, err := svc.List(context.Background(), 7, 10, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, published.ID, listed[0].ID)
}

func TestEventPublishSkipsOtherRecipients(t *testing.T) {
	svc := setupEventService(t)

	events, cleanup := svc.Subscribe(8)
	defer cleanup()

	_, err := svc.Publish(context.Background(), dto.ProgressEventCreateRequest{
		RecipientID: 7,
		Type:        models.EventTypeEvaluationProgress,
		Message:     "batch 1 of 3 complete",
	})
	require.NoError(t, err)

	select {
	case event := <-events:
		t.Fatalf("recipient 8 received event for recipient 7: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventPublishRejectsEmptyAfterSanitization(t *testing.T) {
	svc := setupEventService(t)

	_, err := svc.Publish(context.Background(), dto.ProgressEventCreateRequest{
		RecipientID: 7,
		Type:        models.EventTypeRoundProgressed,
		Message:     "<b> </b>",
	})
	require.Error(t, err)
}

func TestEventPublishRejectsUnknownType(t *testing.T) {
	svc := setupEventService(t)

	_, err := svc.Publish(context.Background(), dto.ProgressEventCreateRequest{
		RecipientID: 7,
		Type:        "candidate_hired",
		Message:     "done",
	})
	require.Error(t, err)
}

func TestEventMarkReadScopedToRecipient(t *testing.T) {
	svc := setupEventService(t)

	published, err := svc.Publish(context.Background(), dto.ProgressEventCreateRequest{
		RecipientID: 7,
		Type:        models.EventTypeEvaluationCompleted,
		Message:     "evaluation run finished",
	})
	require.NoError(t, err)

	_, err = svc.MarkRead(context.Background(), published.ID, 8)
	require.ErrorIs(t, err, ErrEventNotFound)

	read, err := svc.MarkRead(context.Background(), published.ID, 7)
	require.NoError(t, err)
	require.True(t, read.Read)
}

func TestEventSubscribeCleanupClosesChannel(t *testing.T) {
	svc := setupEventService(t)

	events, cleanup := svc.Subscribe(7)
	cleanup()

	_, open := <-events
	require.False(t, open)

	// Publishing after the last subscriber left must not block.
	_, err := svc.Publish(context.Background(), dto.ProgressEventCreateRequest{
		RecipientID: 7,
		Type:        models.EventTypeRoundProgressed,
		Message:     "cohort moved",
	})
	require.NoError(t, err)
}

func TestEventListRequiresActor(t *testing.T) {
	svc := setupEventService(t)

	_, err := svc.List(context.Background(), 0, 10, 0)
	require.ErrorIs(t, err, ErrActorRequired)
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/models"
	"github.com/sparrowhq/talent-api/internal/observability"
	"github.com/sparrowhq/talent-api/internal/repository"
)

// ErrLastRound indicates the current round has no successor to progress into.
var ErrLastRound = errors.New("no next round to progress into")

// ErrEmptyRound indicates the current round has no candidates to carry forward.
var ErrEmptyRound = errors.New("round has no candidates")

// ProgressionService moves a round's full cohort into the next round as one
// replay-safe operation.
type ProgressionService interface {
	ProgressRound(ctx context.Context, actor uint, payload dto.ProgressRoundRequest) (dto.ProgressionResponse, error)
}

type progressionService struct {
	templates   repository.RoundTemplateRepository
	rounds      repository.CandidateRoundRepository
	progression repository.ProgressionRepository
	events      ProgressEventService
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewProgressionService constructs a ProgressionService instance.
func NewProgressionService(templates repository.RoundTemplateRepository, rounds repository.CandidateRoundRepository, progression repository.ProgressionRepository, events ProgressEventService, validate *validator.Validate, logger zerolog.Logger) ProgressionService {
	return &progressionService{
		templates:   templates,
		rounds:      rounds,
		progression: progression,
		events:      events,
		validator:   validate,
		logger:      logger.With().Str("component", "progression_service").Logger(),
	}
}

// ProgressRound persists the status of every candidate in the current round,
// carries each one into the next round with the same status, and activates
// the next template — all inside one transaction. Candidates without a
// recorded decision default to action_pending. Replaying the same
// idempotency key returns the original outcome without moving anyone twice.
func (s *progressionService) ProgressRound(ctx context.Context, actor uint, payload dto.ProgressRoundRequest) (dto.ProgressionResponse, error) {
	if actor == 0 {
		return dto.ProgressionResponse{}, ErrActorRequired
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.ProgressionResponse{}, err
	}

	if receipt, err := s.progression.GetReceipt(ctx, payload.IdempotencyKey); err == nil {
		s.logger.Info().Str("idempotency_key", payload.IdempotencyKey).Msg("progression replayed from receipt")
		return dto.NewProgressionResponse(receipt, true), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ProgressionResponse{}, err
	}

	current, err := s.templates.GetByID(ctx, payload.CurrentTemplateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgressionResponse{}, ErrTemplateNotFound
		}
		return dto.ProgressionResponse{}, err
	}

	if current.JobOpeningID != payload.JobOpeningID {
		return dto.ProgressionResponse{}, ErrTemplateNotFound
	}

	next, err := s.templates.GetByJobAndOrder(ctx, current.JobOpeningID, current.OrderIndex+1)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgressionResponse{}, ErrLastRound
		}
		return dto.ProgressionResponse{}, err
	}

	cohort, err := s.rounds.ListByTemplate(ctx, current.ID)
	if err != nil {
		return dto.ProgressionResponse{}, err
	}

	if len(cohort) == 0 {
		return dto.ProgressionResponse{}, ErrEmptyRound
	}

	statuses := make(map[uint]string, len(cohort))
	for _, round := range cohort {
		status := round.Status
		if !models.IsValidCandidateStatus(status) {
			status = models.CandidateStatusActionPending
		}
		statuses[round.CandidateID] = status
	}

	receipt := models.ProgressionReceipt{
		IdempotencyKey: payload.IdempotencyKey,
		JobOpeningID:   current.JobOpeningID,
		FromTemplateID: current.ID,
		ToTemplateID:   next.ID,
		ActorID:        actor,
	}

	if err := s.progression.Progress(ctx, &receipt, statuses); err != nil {
		return dto.ProgressionResponse{}, err
	}

	observability.ProgressionsTotal().Inc()
	s.logger.Info().
		Uint("job_id", receipt.JobOpeningID).
		Uint("from_template", receipt.FromTemplateID).
		Uint("to_template", receipt.ToTemplateID).
		Int("candidates", receipt.CandidateCount).
		Msg("round progressed")

	if s.events != nil {
		if _, err := s.events.Publish(ctx, dto.ProgressEventCreateRequest{
			RecipientID: actor,
			Type:        models.EventTypeRoundProgressed,
			Message:     fmt.Sprintf("Moved %d candidates from %q to %q", receipt.CandidateCount, current.Name, next.Name),
			Metadata: map[string]interface{}{
				"job_opening_id":   receipt.JobOpeningID,
				"from_template_id": receipt.FromTemplateID,
				"to_template_id":   receipt.ToTemplateID,
			},
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish progression event")
		}
	}

	return dto.NewProgressionResponse(receipt, false), nil
}

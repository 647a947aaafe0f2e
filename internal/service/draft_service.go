package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/models"
	"github.com/sparrowhq/talent-api/internal/repository"
)

// ErrDraftNotLoaded indicates no draft snapshot exists for the round; the
// caller must load one before editing statuses.
var ErrDraftNotLoaded = errors.New("draft not loaded for round")

// ErrUnknownCandidate indicates a status edit referenced a candidate that is
// not part of the round's snapshot.
var ErrUnknownCandidate = errors.New("candidate not in round snapshot")

// DraftService maintains the per-round status overlay: a snapshot of server
// truth plus live edits, with the diff between them driving unsaved-changes
// indicators. A fresh Load replaces both maps and discards any overlay.
type DraftService interface {
	Load(ctx context.Context, recruiterID, templateID uint) (dto.DraftResponse, error)
	Get(ctx context.Context, recruiterID, templateID uint) (dto.DraftResponse, error)
	SetStatus(ctx context.Context, recruiterID, templateID uint, payload dto.DraftSetStatusRequest) (dto.DraftResponse, error)
	Save(ctx context.Context, recruiterID, templateID uint) (dto.DraftResponse, error)
	Discard(ctx context.Context, recruiterID, templateID uint) error
}

type draftState struct {
	Original map[uint]string `json:"original"`
	Current  map[uint]string `json:"current"`
}

type draftService struct {
	rounds    repository.CandidateRoundRepository
	redis     *redis.Client
	ttl       time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewDraftService constructs a DraftService instance.
func NewDraftService(rounds repository.CandidateRoundRepository, redisClient *redis.Client, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) DraftService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	return &draftService{
		rounds:    rounds,
		redis:     redisClient,
		ttl:       ttl,
		validator: validate,
		logger:    logger.With().Str("component", "draft_service").Logger(),
	}
}

func draftKey(recruiterID, templateID uint) string {
	return fmt.Sprintf("draft:%d:%d", recruiterID, templateID)
}

// Load snapshots the round's persisted statuses into a fresh overlay. Any
// existing overlay for the same recruiter and round is replaced.
func (s *draftService) Load(ctx context.Context, recruiterID, templateID uint) (dto.DraftResponse, error) {
	rounds, err := s.rounds.ListByTemplate(ctx, templateID)
	if err != nil {
		return dto.DraftResponse{}, err
	}

	state := draftState{
		Original: make(map[uint]string, len(rounds)),
		Current:  make(map[uint]string, len(rounds)),
	}

	for _, round := range rounds {
		status := round.Status
		if status == "" {
			status = models.CandidateStatusActionPending
		}
		state.Original[round.CandidateID] = status
		state.Current[round.CandidateID] = status
	}

	if err := s.store(ctx, recruiterID, templateID, state); err != nil {
		return dto.DraftResponse{}, err
	}

	return buildDraftResponse(templateID, state), nil
}

func (s *draftService) Get(ctx context.Context, recruiterID, templateID uint) (dto.DraftResponse, error) {
	state, err := s.fetch(ctx, recruiterID, templateID)
	if err != nil {
		return dto.DraftResponse{}, err
	}

	return buildDraftResponse(templateID, state), nil
}

// SetStatus records one edit. Reverting a candidate to its original status
// removes it from the pending diff again.
func (s *draftService) SetStatus(ctx context.Context, recruiterID, templateID uint, payload dto.DraftSetStatusRequest) (dto.DraftResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DraftResponse{}, err
	}

	state, err := s.fetch(ctx, recruiterID, templateID)
	if err != nil {
		return dto.DraftResponse{}, err
	}

	if _, ok := state.Original[payload.CandidateID]; !ok {
		return dto.DraftResponse{}, ErrUnknownCandidate
	}

	state.Current[payload.CandidateID] = payload.Status

	if err := s.store(ctx, recruiterID, templateID, state); err != nil {
		return dto.DraftResponse{}, err
	}

	return buildDraftResponse(templateID, state), nil
}

// Save persists the status of every candidate in the snapshot, not only the
// edited ones, then drops the overlay.
func (s *draftService) Save(ctx context.Context, recruiterID, templateID uint) (dto.DraftResponse, error) {
	state, err := s.fetch(ctx, recruiterID, templateID)
	if err != nil {
		return dto.DraftResponse{}, err
	}

	statuses := make(map[uint]string, len(state.Current))
	for candidateID, status := range state.Current {
		if status == "" {
			status = models.CandidateStatusActionPending
		}
		statuses[candidateID] = status
	}

	if err := s.rounds.BulkUpsertStatus(ctx, templateID, statuses, recruiterID); err != nil {
		return dto.DraftResponse{}, err
	}

	if err := s.Discard(ctx, recruiterID, templateID); err != nil {
		s.logger.Warn().Err(err).Msg("failed to drop draft after save")
	}

	s.logger.Info().Uint("template_id", templateID).Int("candidates", len(statuses)).Msg("draft saved")

	// A saved draft has no pending changes left; report the persisted state.
	saved := draftState{Original: statuses, Current: statuses}

	return buildDraftResponse(templateID, saved), nil
}

func (s *draftService) Discard(ctx context.Context, recruiterID, templateID uint) error {
	return s.redis.Del(ctx, draftKey(recruiterID, templateID)).Err()
}

func (s *draftService) fetch(ctx context.Context, recruiterID, templateID uint) (draftState, error) {
	payload, err := s.redis.Get(ctx, draftKey(recruiterID, templateID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return draftState{}, ErrDraftNotLoaded
		}
		return draftState{}, err
	}

	var state draftState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return draftState{}, fmt.Errorf("corrupt draft state: %w", err)
	}

	return state, nil
}

func (s *draftService) store(ctx context.Context, recruiterID, templateID uint, state draftState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return s.redis.Set(ctx, draftKey(recruiterID, templateID), payload, s.ttl).Err()
}

func buildDraftResponse(templateID uint, state draftState) dto.DraftResponse {
	pending := make(map[uint]string)
	for candidateID, status := range state.Current {
		if state.Original[candidateID] != status {
			pending[candidateID] = status
		}
	}

	return dto.DraftResponse{
		JobRoundTemplateID: templateID,
		Original:           state.Original,
		Current:            state.Current,
		Pending:            pending,
	}
}

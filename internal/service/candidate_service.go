package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/models"
	"github.com/sparrowhq/talent-api/internal/repository"
)

// ErrCandidateNotFound indicates a candidate could not be found.
var ErrCandidateNotFound = errors.New("candidate not found")

// missingScoreSentinel orders unevaluated candidates after any real score,
// which is always >= 0.
const missingScoreSentinel = -1

// CandidateService orchestrates candidate workflows.
type CandidateService interface {
	ListByJob(ctx context.Context, jobID uint, sortByScoreDesc bool) ([]dto.CandidateResponse, error)
	Get(ctx context.Context, id uint) (dto.CandidateResponse, error)
	Create(ctx context.Context, payload dto.CandidateCreateRequest) (dto.CandidateResponse, error)
}

type candidateService struct {
	candidates repository.CandidateRepository
	jobs       repository.JobOpeningRepository
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewCandidateService constructs a CandidateService instance.
func NewCandidateService(candidates repository.CandidateRepository, jobs repository.JobOpeningRepository, validate *validator.Validate, logger zerolog.Logger) CandidateService {
	return &candidateService{
		candidates: candidates,
		jobs:       jobs,
		validator:  validate,
		logger:     logger.With().Str("component", "candidate_service").Logger(),
	}
}

func (s *candidateService) ListByJob(ctx context.Context, jobID uint, sortByScoreDesc bool) ([]dto.CandidateResponse, error) {
	candidates, err := s.candidates.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	responses := dto.NewCandidateResponseSlice(candidates)
	if sortByScoreDesc {
		SortByScoreDescending(responses)
	}

	return responses, nil
}

func (s *candidateService) Get(ctx context.Context, id uint) (dto.CandidateResponse, error) {
	candidate, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CandidateResponse{}, ErrCandidateNotFound
		}
		return dto.CandidateResponse{}, err
	}

	return dto.NewCandidateResponse(candidate), nil
}

func (s *candidateService) Create(ctx context.Context, payload dto.CandidateCreateRequest) (dto.CandidateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CandidateResponse{}, err
	}

	if _, err := s.jobs.GetByID(ctx, payload.JobOpeningID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CandidateResponse{}, ErrJobNotFound
		}
		return dto.CandidateResponse{}, err
	}

	candidate := models.Candidate{
		JobOpeningID: payload.JobOpeningID,
		Name:         payload.Name,
		Email:        payload.Email,
		Phone:        payload.Phone,
	}

	if len(payload.CustomFields) > 0 {
		fields, err := json.Marshal(payload.CustomFields)
		if err != nil {
			return dto.CandidateResponse{}, err
		}
		candidate.CustomFields = fields
	}

	if err := s.candidates.Create(ctx, &candidate); err != nil {
		return dto.CandidateResponse{}, err
	}

	s.logger.Info().Uint("candidate_id", candidate.ID).Uint("job_id", candidate.JobOpeningID).Msg("candidate created")

	return dto.NewCandidateResponse(candidate), nil
}

// SortByScoreDescending orders candidates highest score first. Candidates
// without a score take the sentinel and therefore sort last.
func SortByScoreDescending(candidates []dto.CandidateResponse) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return scoreOrSentinel(candidates[i]) > scoreOrSentinel(candidates[j])
	})
}

func scoreOrSentinel(candidate dto.CandidateResponse) float64 {
	if candidate.Score == nil {
		return missingScoreSentinel
	}
	return *candidate.Score
}

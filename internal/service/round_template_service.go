package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/models"
	"github.com/sparrowhq/talent-api/internal/repository"
)

// ErrTemplateNotFound indicates a round template could not be found.
var ErrTemplateNotFound = errors.New("round template not found")

// ErrOrderIndexNotIncreasing indicates a new round's order index does not
// extend the job's strictly increasing sequence.
var ErrOrderIndexNotIncreasing = errors.New("order index must exceed existing rounds")

// RoundTemplateService manages the ordered round pipeline of a job.
type RoundTemplateService interface {
	ListByJob(ctx context.Context, jobID uint) ([]dto.RoundTemplateResponse, error)
	Get(ctx context.Context, id uint) (dto.RoundTemplateResponse, error)
	Create(ctx context.Context, payload dto.RoundTemplateCreateRequest) (dto.RoundTemplateResponse, error)
	Confirm(ctx context.Context, id uint) (dto.RoundTemplateResponse, error)
}

type roundTemplateService struct {
	templates repository.RoundTemplateRepository
	jobs      repository.JobOpeningRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewRoundTemplateService constructs a RoundTemplateService instance.
func NewRoundTemplateService(templates repository.RoundTemplateRepository, jobs repository.JobOpeningRepository, validate *validator.Validate, logger zerolog.Logger) RoundTemplateService {
	return &roundTemplateService{
		templates: templates,
		jobs:      jobs,
		validator: validate,
		logger:    logger.With().Str("component", "round_template_service").Logger(),
	}
}

func (s *roundTemplateService) ListByJob(ctx context.Context, jobID uint) ([]dto.RoundTemplateResponse, error) {
	templates, err := s.templates.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return dto.NewRoundTemplateResponseSlice(templates), nil
}

func (s *roundTemplateService) Get(ctx context.Context, id uint) (dto.RoundTemplateResponse, error) {
	template, err := s.templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RoundTemplateResponse{}, ErrTemplateNotFound
		}
		return dto.RoundTemplateResponse{}, err
	}

	return dto.NewRoundTemplateResponse(template), nil
}

func (s *roundTemplateService) Create(ctx context.Context, payload dto.RoundTemplateCreateRequest) (dto.RoundTemplateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RoundTemplateResponse{}, err
	}

	if _, err := s.jobs.GetByID(ctx, payload.JobOpeningID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RoundTemplateResponse{}, ErrJobNotFound
		}
		return dto.RoundTemplateResponse{}, err
	}

	maxOrder, err := s.templates.MaxOrderIndex(ctx, payload.JobOpeningID)
	if err != nil {
		return dto.RoundTemplateResponse{}, err
	}

	if payload.OrderIndex <= maxOrder {
		return dto.RoundTemplateResponse{}, ErrOrderIndexNotIncreasing
	}

	required := true
	if payload.IsRequired != nil {
		required = *payload.IsRequired
	}

	template := models.JobRoundTemplate{
		JobOpeningID: payload.JobOpeningID,
		Name:         payload.Name,
		Type:         payload.Type,
		OrderIndex:   payload.OrderIndex,
		IsRequired:   required,
	}

	if err := s.templates.Create(ctx, &template); err != nil {
		return dto.RoundTemplateResponse{}, err
	}

	s.logger.Info().Uint("template_id", template.ID).Uint("job_id", template.JobOpeningID).Int("order", template.OrderIndex).Msg("round template created")

	return dto.NewRoundTemplateResponse(template), nil
}

// Confirm marks the template active. A round stays inert for candidates until
// this has happened.
func (s *roundTemplateService) Confirm(ctx context.Context, id uint) (dto.RoundTemplateResponse, error) {
	template, err := s.templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RoundTemplateResponse{}, ErrTemplateNotFound
		}
		return dto.RoundTemplateResponse{}, err
	}

	if !template.IsActive {
		template.IsActive = true
		if err := s.templates.Update(ctx, &template); err != nil {
			return dto.RoundTemplateResponse{}, err
		}
	}

	return dto.NewRoundTemplateResponse(template), nil
}

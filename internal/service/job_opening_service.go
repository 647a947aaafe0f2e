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

// ErrJobNotFound indicates a job opening could not be found.
var ErrJobNotFound = errors.New("job opening not found")

// ErrActorRequired indicates a mutating call arrived without an authenticated
// actor. Writes are never attributed to a placeholder identity.
var ErrActorRequired = errors.New("authenticated actor is required")

// ErrRoundsAlreadyStarted indicates the job's pipeline has already been kicked off.
var ErrRoundsAlreadyStarted = errors.New("rounds already started for job")

// ErrNoRoundTemplates indicates a pipeline cannot start without configured rounds.
var ErrNoRoundTemplates = errors.New("job has no round templates")

// JobOpeningService orchestrates job opening workflows.
type JobOpeningService interface {
	List(ctx context.Context, filter repository.JobOpeningFilter) ([]dto.JobOpeningResponse, error)
	Get(ctx context.Context, id uint) (dto.JobOpeningResponse, error)
	Create(ctx context.Context, actor uint, payload dto.JobOpeningCreateRequest) (dto.JobOpeningResponse, error)
	Update(ctx context.Context, id uint, payload dto.JobOpeningUpdateRequest) (dto.JobOpeningResponse, error)
	Delete(ctx context.Context, id uint) error
	StartRounds(ctx context.Context, actor, id uint) (dto.JobOpeningResponse, error)
}

type jobOpeningService struct {
	jobs      repository.JobOpeningRepository
	templates repository.RoundTemplateRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewJobOpeningService constructs a JobOpeningService instance.
func NewJobOpeningService(jobs repository.JobOpeningRepository, templates repository.RoundTemplateRepository, validate *validator.Validate, logger zerolog.Logger) JobOpeningService {
	return &jobOpeningService{
		jobs:      jobs,
		templates: templates,
		validator: validate,
		logger:    logger.With().Str("component", "job_opening_service").Logger(),
	}
}

func (s *jobOpeningService) List(ctx context.Context, filter repository.JobOpeningFilter) ([]dto.JobOpeningResponse, error) {
	jobs, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewJobOpeningResponseSlice(jobs), nil
}

func (s *jobOpeningService) Get(ctx context.Context, id uint) (dto.JobOpeningResponse, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.JobOpeningResponse{}, ErrJobNotFound
		}
		return dto.JobOpeningResponse{}, err
	}

	return dto.NewJobOpeningResponse(job), nil
}

func (s *jobOpeningService) Create(ctx context.Context, actor uint, payload dto.JobOpeningCreateRequest) (dto.JobOpeningResponse, error) {
	if actor == 0 {
		return dto.JobOpeningResponse{}, ErrActorRequired
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.JobOpeningResponse{}, err
	}

	job := models.JobOpening{
		Title:       payload.Title,
		Description: payload.Description,
		Status:      models.JobStatusDraft,
		RecruiterID: actor,
	}

	if err := s.jobs.Create(ctx, &job); err != nil {
		return dto.JobOpeningResponse{}, err
	}

	s.logger.Info().Uint("job_id", job.ID).Uint("recruiter_id", actor).Msg("job opening created")

	return dto.NewJobOpeningResponse(job), nil
}

func (s *jobOpeningService) Update(ctx context.Context, id uint, payload dto.JobOpeningUpdateRequest) (dto.JobOpeningResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.JobOpeningResponse{}, err
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.JobOpeningResponse{}, ErrJobNotFound
		}
		return dto.JobOpeningResponse{}, err
	}

	if payload.Title != nil {
		job.Title = *payload.Title
	}
	if payload.Description != nil {
		job.Description = *payload.Description
	}
	if payload.Status != nil {
		job.Status = *payload.Status
	}

	if err := s.jobs.Update(ctx, &job); err != nil {
		return dto.JobOpeningResponse{}, err
	}

	return dto.NewJobOpeningResponse(job), nil
}

func (s *jobOpeningService) Delete(ctx context.Context, id uint) error {
	if _, err := s.jobs.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrJobNotFound
		}
		return err
	}

	return s.jobs.Delete(ctx, id)
}

// StartRounds flips the job into an active pipeline and activates the first
// round. Later rounds stay inert until an explicit progression confirms them.
func (s *jobOpeningService) StartRounds(ctx context.Context, actor, id uint) (dto.JobOpeningResponse, error) {
	if actor == 0 {
		return dto.JobOpeningResponse{}, ErrActorRequired
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.JobOpeningResponse{}, ErrJobNotFound
		}
		return dto.JobOpeningResponse{}, err
	}

	if job.HasRoundsStarted {
		return dto.JobOpeningResponse{}, ErrRoundsAlreadyStarted
	}

	templates, err := s.templates.ListByJob(ctx, id)
	if err != nil {
		return dto.JobOpeningResponse{}, err
	}

	if len(templates) == 0 {
		return dto.JobOpeningResponse{}, ErrNoRoundTemplates
	}

	first := templates[0]
	first.IsActive = true
	if err := s.templates.Update(ctx, &first); err != nil {
		return dto.JobOpeningResponse{}, err
	}

	job.HasRoundsStarted = true
	job.Status = models.JobStatusActive
	if err := s.jobs.Update(ctx, &job); err != nil {
		return dto.JobOpeningResponse{}, err
	}

	s.logger.Info().Uint("job_id", id).Uint("first_round", first.ID).Msg("rounds started")

	updated, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return dto.JobOpeningResponse{}, err
	}

	return dto.NewJobOpeningResponse(updated), nil
}

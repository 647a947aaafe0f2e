package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/models"
	"github.com/sparrowhq/talent-api/internal/repository"
)

// ErrViewNotFound indicates a view could not be found.
var ErrViewNotFound = errors.New("view not found")

// ViewService manages named cross-job views and aggregates candidates across
// every job a view spans.
type ViewService interface {
	List(ctx context.Context, userID uint) ([]dto.ViewResponse, error)
	Create(ctx context.Context, actor uint, payload dto.ViewCreateRequest) (dto.ViewResponse, error)
	Delete(ctx context.Context, id uint) error
	AggregateCandidates(ctx context.Context, viewID uint, roundType, roundName string) (dto.ViewAggregationResponse, error)
}

type viewService struct {
	views      repository.ViewRepository
	jobs       repository.JobOpeningRepository
	templates  repository.RoundTemplateRepository
	rounds     repository.CandidateRoundRepository
	settings   RoundSettingService
	cache      *redis.Client
	cacheTTL   time.Duration
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewViewService constructs a ViewService instance.
func NewViewService(views repository.ViewRepository, jobs repository.JobOpeningRepository, templates repository.RoundTemplateRepository, rounds repository.CandidateRoundRepository, settings RoundSettingService, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) ViewService {
	return &viewService{
		views:     views,
		jobs:      jobs,
		templates: templates,
		rounds:    rounds,
		settings:  settings,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger.With().Str("component", "view_service").Logger(),
	}
}

func (s *viewService) List(ctx context.Context, userID uint) ([]dto.ViewResponse, error) {
	views, err := s.views.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewViewResponseSlice(views), nil
}

func (s *viewService) Create(ctx context.Context, actor uint, payload dto.ViewCreateRequest) (dto.ViewResponse, error) {
	if actor == 0 {
		return dto.ViewResponse{}, ErrActorRequired
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.ViewResponse{}, err
	}

	for _, jobID := range payload.JobOpeningIDs {
		if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ViewResponse{}, ErrJobNotFound
			}
			return dto.ViewResponse{}, err
		}
	}

	ids, err := json.Marshal(payload.JobOpeningIDs)
	if err != nil {
		return dto.ViewResponse{}, err
	}

	view := models.View{
		Title:         payload.Title,
		CreatedBy:     actor,
		JobOpeningIDs: ids,
	}

	if err := s.views.Create(ctx, &view); err != nil {
		return dto.ViewResponse{}, err
	}

	s.logger.Info().Uint("view_id", view.ID).Int("jobs", len(payload.JobOpeningIDs)).Msg("view created")

	return dto.NewViewResponse(view), nil
}

func (s *viewService) Delete(ctx context.Context, id uint) error {
	if _, err := s.views.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrViewNotFound
		}
		return err
	}

	if s.cache != nil {
		if err := s.invalidateAggregations(context.WithoutCancel(ctx), id); err != nil {
			s.logger.Warn().Err(err).Uint("view_id", id).Msg("failed to invalidate aggregation cache")
		}
	}

	return s.views.Delete(ctx, id)
}

type jobContribution struct {
	jobID      uint
	candidates []dto.AggregatedCandidate
	err        error
}

// AggregateCandidates merges candidates for one round name/type across every
// job the view spans. Jobs are fetched concurrently; one job failing degrades
// to an empty contribution for that job instead of failing the whole merge.
func (s *viewService) AggregateCandidates(ctx context.Context, viewID uint, roundType, roundName string) (dto.ViewAggregationResponse, error) {
	if !models.IsKnownRoundType(roundType) {
		return dto.ViewAggregationResponse{}, fmt.Errorf("unknown round type %q", roundType)
	}

	view, err := s.views.GetByID(ctx, viewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ViewAggregationResponse{}, ErrViewNotFound
		}
		return dto.ViewAggregationResponse{}, err
	}

	cacheKey := fmt.Sprintf("view:agg:%d:%s:%s", viewID, roundType, roundName)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.ViewAggregationResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				s.logger.Debug().Uint("view_id", viewID).Msg("aggregation cache hit")
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read aggregation cache")
		}
	}

	var jobIDs []uint
	if err := json.Unmarshal(view.JobOpeningIDs, &jobIDs); err != nil {
		return dto.ViewAggregationResponse{}, fmt.Errorf("corrupt view job list: %w", err)
	}

	contributions := make([]jobContribution, len(jobIDs))
	var wg sync.WaitGroup
	for i, jobID := range jobIDs {
		wg.Add(1)
		go func(i int, jobID uint) {
			defer wg.Done()
			candidates, err := s.collectJob(ctx, jobID, roundType, roundName)
			contributions[i] = jobContribution{jobID: jobID, candidates: candidates, err: err}
		}(i, jobID)
	}
	wg.Wait()

	response := dto.ViewAggregationResponse{
		ViewID:     viewID,
		RoundType:  roundType,
		RoundName:  roundName,
		Candidates: make([]dto.AggregatedCandidate, 0),
	}

	for _, contribution := range contributions {
		if contribution.err != nil {
			if response.JobErrors == nil {
				response.JobErrors = make(map[uint]string)
			}
			response.JobErrors[contribution.jobID] = contribution.err.Error()
			s.logger.Warn().Err(contribution.err).Uint("job_id", contribution.jobID).Msg("job contribution degraded to empty")
			continue
		}
		response.Candidates = append(response.Candidates, contribution.candidates...)
	}

	sortAggregatedByScore(response.Candidates)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store aggregation cache")
			}
		}
	}

	return response, nil
}

// collectJob gathers one job's candidates for every round matching the
// requested type and name, tagged with the job and its assessment mapping.
func (s *viewService) collectJob(ctx context.Context, jobID uint, roundType, roundName string) ([]dto.AggregatedCandidate, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	matching, err := s.templates.FindMatching(ctx, jobID, roundType, roundName)
	if err != nil {
		return nil, err
	}

	candidates := make([]dto.AggregatedCandidate, 0)
	for _, template := range matching {
		rounds, err := s.rounds.ListByTemplate(ctx, template.ID)
		if err != nil {
			return nil, err
		}

		assessmentID := ""
		if s.settings != nil {
			if resolved, err := s.settings.Resolve(ctx, template.ID, models.SettingKeyAssessmentID); err == nil {
				assessmentID = resolved.Value
			}
		}

		for _, round := range rounds {
			candidate := round.Candidate
			candidate.Rounds = []models.CandidateRound{round}
			candidates = append(candidates, dto.AggregatedCandidate{
				CandidateResponse:  dto.NewCandidateResponse(candidate),
				JobID:              jobID,
				JobTitle:           job.Title,
				JobRoundTemplateID: template.ID,
				AssessmentID:       assessmentID,
			})
		}
	}

	return candidates, nil
}

func (s *viewService) invalidateAggregations(ctx context.Context, viewID uint) error {
	pattern := fmt.Sprintf("view:agg:%d:*", viewID)
	iter := s.cache.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}

	return iter.Err()
}

func sortAggregatedByScore(candidates []dto.AggregatedCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return scoreOrSentinel(candidates[i].CandidateResponse) > scoreOrSentinel(candidates[j].CandidateResponse)
	})
}

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

// ErrSettingNotFound indicates no layer supplies a value for the key.
var ErrSettingNotFound = errors.New("round setting not found")

// ErrSettingScopeRequired indicates an upsert named neither a template nor a job.
var ErrSettingScopeRequired = errors.New("setting must be scoped to a template or a job")

// defaultAssessments map each round type to its stock assessment when neither
// the template nor the job configures one.
var defaultAssessments = map[string]string{
	models.RoundTypeInterview:    "interview-standard-v1",
	models.RoundTypeRapidFire:    "rapid-fire-standard-v1",
	models.RoundTypeTalkOnATopic: "talk-topic-standard-v1",
	models.RoundTypeGamesArena:   "games-arena-standard-v1",
}

// RoundSettingService is the typed per-round configuration store. Resolution
// precedence lives in exactly one place: template setting, then job-level
// override, then the round-type default.
type RoundSettingService interface {
	Put(ctx context.Context, payload dto.RoundSettingPutRequest) (dto.ResolvedSetting, error)
	Resolve(ctx context.Context, templateID uint, key string) (dto.ResolvedSetting, error)
}

type roundSettingService struct {
	settings  repository.RoundSettingRepository
	templates repository.RoundTemplateRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewRoundSettingService constructs a RoundSettingService instance.
func NewRoundSettingService(settings repository.RoundSettingRepository, templates repository.RoundTemplateRepository, validate *validator.Validate, logger zerolog.Logger) RoundSettingService {
	return &roundSettingService{
		settings:  settings,
		templates: templates,
		validator: validate,
		logger:    logger.With().Str("component", "round_setting_service").Logger(),
	}
}

func (s *roundSettingService) Put(ctx context.Context, payload dto.RoundSettingPutRequest) (dto.ResolvedSetting, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResolvedSetting{}, err
	}

	if payload.JobRoundTemplateID == nil && payload.JobOpeningID == nil {
		return dto.ResolvedSetting{}, ErrSettingScopeRequired
	}

	setting := models.RoundSetting{
		JobRoundTemplateID: payload.JobRoundTemplateID,
		JobOpeningID:       payload.JobOpeningID,
		Key:                payload.Key,
		Value:              payload.Value,
	}

	if err := s.settings.Upsert(ctx, &setting); err != nil {
		return dto.ResolvedSetting{}, err
	}

	return dto.NewRoundSettingResponse(setting), nil
}

// Resolve walks the precedence chain for one template and key and reports
// which layer supplied the value.
func (s *roundSettingService) Resolve(ctx context.Context, templateID uint, key string) (dto.ResolvedSetting, error) {
	template, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResolvedSetting{}, ErrTemplateNotFound
		}
		return dto.ResolvedSetting{}, err
	}

	if setting, err := s.settings.GetTemplateSetting(ctx, templateID, key); err == nil {
		return dto.ResolvedSetting{Key: key, Value: setting.Value, Source: models.SettingSourceTemplate}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ResolvedSetting{}, err
	}

	if setting, err := s.settings.GetJobSetting(ctx, template.JobOpeningID, key); err == nil {
		return dto.ResolvedSetting{Key: key, Value: setting.Value, Source: models.SettingSourceJob}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ResolvedSetting{}, err
	}

	if key == models.SettingKeyAssessmentID {
		if value, ok := defaultAssessments[template.Type]; ok {
			return dto.ResolvedSetting{Key: key, Value: value, Source: models.SettingSourceDefault}, nil
		}
	}

	return dto.ResolvedSetting{}, ErrSettingNotFound
}

package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sparrowhq/talent-api/internal/models"
)

// RoundSettingRepository defines data operations for round settings.
type RoundSettingRepository interface {
	GetTemplateSetting(ctx context.Context, templateID uint, key string) (models.RoundSetting, error)
	GetJobSetting(ctx context.Context, jobID uint, key string) (models.RoundSetting, error)
	Upsert(ctx context.Context, setting *models.RoundSetting) error
}

type roundSettingRepository struct {
	db *gorm.DB
}

// NewRoundSettingRepository instantiates the repository.
func NewRoundSettingRepository(db *gorm.DB) RoundSettingRepository {
	return &roundSettingRepository{db: db}
}

func (r *roundSettingRepository) GetTemplateSetting(ctx context.Context, templateID uint, key string) (models.RoundSetting, error) {
	var setting models.RoundSetting
	if err := r.db.WithContext(ctx).
		Where("job_round_template_id = ?", templateID).
		Where("key = ?", key).
		First(&setting).Error; err != nil {
		return models.RoundSetting{}, err
	}

	return setting, nil
}

func (r *roundSettingRepository) GetJobSetting(ctx context.Context, jobID uint, key string) (models.RoundSetting, error) {
	var setting models.RoundSetting
	if err := r.db.WithContext(ctx).
		Where("job_opening_id = ?", jobID).
		Where("job_round_template_id IS NULL").
		Where("key = ?", key).
		First(&setting).Error; err != nil {
		return models.RoundSetting{}, err
	}

	return setting, nil
}

func (r *roundSettingRepository) Upsert(ctx context.Context, setting *models.RoundSetting) error {
	conflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_round_template_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}
	if setting.JobRoundTemplateID == nil {
		conflict.Columns = []clause.Column{{Name: "job_opening_id"}, {Name: "key"}}
	}

	return r.db.WithContext(ctx).Clauses(conflict).Create(setting).Error
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sparrowhq/talent-api/internal/models"
)

// RoundTemplateRepository defines data operations for job round templates.
type RoundTemplateRepository interface {
	ListByJob(ctx context.Context, jobID uint) ([]models.JobRoundTemplate, error)
	GetByID(ctx context.Context, id uint) (models.JobRoundTemplate, error)
	GetByJobAndOrder(ctx context.Context, jobID uint, orderIndex int) (models.JobRoundTemplate, error)
	MaxOrderIndex(ctx context.Context, jobID uint) (int, error)
	FindMatching(ctx context.Context, jobID uint, roundType, name string) ([]models.JobRoundTemplate, error)
	Create(ctx context.Context, template *models.JobRoundTemplate) error
	Update(ctx context.Context, template *models.JobRoundTemplate) error
}

type roundTemplateRepository struct {
	db *gorm.DB
}

// NewRoundTemplateRepository instantiates the repository.
func NewRoundTemplateRepository(db *gorm.DB) RoundTemplateRepository {
	return &roundTemplateRepository{db: db}
}

func (r *roundTemplateRepository) ListByJob(ctx context.Context, jobID uint) ([]models.JobRoundTemplate, error) {
	var templates []models.JobRoundTemplate
	if err := r.db.WithContext(ctx).
		Where("job_opening_id = ?", jobID).
		Order("order_index ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *roundTemplateRepository) GetByID(ctx context.Context, id uint) (models.JobRoundTemplate, error) {
	var template models.JobRoundTemplate
	if err := r.db.WithContext(ctx).First(&template, id).Error; err != nil {
		return models.JobRoundTemplate{}, err
	}

	return template, nil
}

func (r *roundTemplateRepository) GetByJobAndOrder(ctx context.Context, jobID uint, orderIndex int) (models.JobRoundTemplate, error) {
	var template models.JobRoundTemplate
	if err := r.db.WithContext(ctx).
		Where("job_opening_id = ?", jobID).
		Where("order_index = ?", orderIndex).
		First(&template).Error; err != nil {
		return models.JobRoundTemplate{}, err
	}

	return template, nil
}

func (r *roundTemplateRepository) MaxOrderIndex(ctx context.Context, jobID uint) (int, error) {
	var max *int
	if err := r.db.WithContext(ctx).
		Model(&models.JobRoundTemplate{}).
		Where("job_opening_id = ?", jobID).
		Select("MAX(order_index)").
		Scan(&max).Error; err != nil {
		return 0, err
	}

	if max == nil {
		return 0, nil
	}

	return *max, nil
}

func (r *roundTemplateRepository) FindMatching(ctx context.Context, jobID uint, roundType, name string) ([]models.JobRoundTemplate, error) {
	query := r.db.WithContext(ctx).
		Where("job_opening_id = ?", jobID).
		Where("type = ?", roundType)

	if name != "" {
		query = query.Where("name = ?", name)
	}

	var templates []models.JobRoundTemplate
	if err := query.Order("order_index ASC").Find(&templates).Error; err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *roundTemplateRepository) Create(ctx context.Context, template *models.JobRoundTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *roundTemplateRepository) Update(ctx context.Context, template *models.JobRoundTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sparrowhq/talent-api/internal/models"
)

// JobOpeningFilter narrows job opening queries.
type JobOpeningFilter struct {
	RecruiterID *uint
	Status      *string
}

// JobOpeningRepository defines data operations for job openings.
type JobOpeningRepository interface {
	List(ctx context.Context, filter JobOpeningFilter) ([]models.JobOpening, error)
	GetByID(ctx context.Context, id uint) (models.JobOpening, error)
	Create(ctx context.Context, job *models.JobOpening) error
	Update(ctx context.Context, job *models.JobOpening) error
	Delete(ctx context.Context, id uint) error
}

type jobOpeningRepository struct {
	db *gorm.DB
}

// NewJobOpeningRepository instantiates the repository.
func NewJobOpeningRepository(db *gorm.DB) JobOpeningRepository {
	return &jobOpeningRepository{db: db}
}

func (r *jobOpeningRepository) List(ctx context.Context, filter JobOpeningFilter) ([]models.JobOpening, error) {
	query := r.db.WithContext(ctx).Model(&models.JobOpening{})

	if filter.RecruiterID != nil {
		query = query.Where("recruiter_id = ?", *filter.RecruiterID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var jobs []models.JobOpening
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}

	return jobs, nil
}

func (r *jobOpeningRepository) GetByID(ctx context.Context, id uint) (models.JobOpening, error) {
	var job models.JobOpening
	if err := r.db.WithContext(ctx).
		Preload("RoundTemplates", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&job, id).Error; err != nil {
		return models.JobOpening{}, err
	}

	return job, nil
}

func (r *jobOpeningRepository) Create(ctx context.Context, job *models.JobOpening) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobOpeningRepository) Update(ctx context.Context, job *models.JobOpening) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *jobOpeningRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.JobOpening{}, id).Error
}

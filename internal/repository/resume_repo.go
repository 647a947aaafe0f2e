package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sparrowhq/talent-api/internal/models"
)

// ResumeRepository defines data operations for stored resumes.
type ResumeRepository interface {
	GetByCandidate(ctx context.Context, candidateID uint) (models.Resume, error)
	Create(ctx context.Context, resume *models.Resume) error
	DeleteByCandidate(ctx context.Context, candidateID uint) error
}

type resumeRepository struct {
	db *gorm.DB
}

// NewResumeRepository instantiates the repository.
func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) GetByCandidate(ctx context.Context, candidateID uint) (models.Resume, error) {
	var resume models.Resume
	if err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		First(&resume).Error; err != nil {
		return models.Resume{}, err
	}

	return resume, nil
}

func (r *resumeRepository) Create(ctx context.Context, resume *models.Resume) error {
	return r.db.WithContext(ctx).Create(resume).Error
}

func (r *resumeRepository) DeleteByCandidate(ctx context.Context, candidateID uint) error {
	return r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Delete(&models.Resume{}).Error
}

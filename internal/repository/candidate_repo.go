package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sparrowhq/talent-api/internal/models"
)

// CandidateRepository defines data operations for candidates.
type CandidateRepository interface {
	ListByJob(ctx context.Context, jobID uint) ([]models.Candidate, error)
	GetByID(ctx context.Context, id uint) (models.Candidate, error)
	Create(ctx context.Context, candidate *models.Candidate) error
	Update(ctx context.Context, candidate *models.Candidate) error
}

type candidateRepository struct {
	db *gorm.DB
}

// NewCandidateRepository instantiates the repository.
func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) ListByJob(ctx context.Context, jobID uint) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := r.db.WithContext(ctx).
		Preload("Rounds").
		Preload("Rounds.Evaluation").
		Where("job_opening_id = ?", jobID).
		Order("created_at ASC").
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	return candidates, nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id uint) (models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.WithContext(ctx).
		Preload("Rounds").
		Preload("Rounds.Evaluation").
		First(&candidate, id).Error; err != nil {
		return models.Candidate{}, err
	}

	return candidate, nil
}

func (r *candidateRepository) Create(ctx context.Context, candidate *models.Candidate) error {
	return r.db.WithContext(ctx).Create(candidate).Error
}

func (r *candidateRepository) Update(ctx context.Context, candidate *models.Candidate) error {
	return r.db.WithContext(ctx).Save(candidate).Error
}

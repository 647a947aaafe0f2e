package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sparrowhq/talent-api/internal/models"
)

// ViewRepository defines data operations for cross-job views.
type ViewRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.View, error)
	GetByID(ctx context.Context, id uint) (models.View, error)
	Create(ctx context.Context, view *models.View) error
	Delete(ctx context.Context, id uint) error
}

type viewRepository struct {
	db *gorm.DB
}

// NewViewRepository instantiates the repository.
func NewViewRepository(db *gorm.DB) ViewRepository {
	return &viewRepository{db: db}
}

func (r *viewRepository) ListByUser(ctx context.Context, userID uint) ([]models.View, error) {
	var views []models.View
	if err := r.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&views).Error; err != nil {
		return nil, err
	}

	return views, nil
}

func (r *viewRepository) GetByID(ctx context.Context, id uint) (models.View, error) {
	var view models.View
	if err := r.db.WithContext(ctx).First(&view, id).Error; err != nil {
		return models.View{}, err
	}

	return view, nil
}

func (r *viewRepository) Create(ctx context.Context, view *models.View) error {
	return r.db.WithContext(ctx).Create(view).Error
}

func (r *viewRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.View{}, id).Error
}

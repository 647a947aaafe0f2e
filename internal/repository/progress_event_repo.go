package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sparrowhq/talent-api/internal/models"
)

// ProgressEventRepository defines data operations for progress events.
type ProgressEventRepository interface {
	Create(ctx context.Context, event *models.ProgressEvent) error
	ListByRecipient(ctx context.Context, recipientID uint, limit, offset int) ([]models.ProgressEvent, error)
	MarkRead(ctx context.Context, id, recipientID uint) (models.ProgressEvent, error)
}

type progressEventRepository struct {
	db *gorm.DB
}

// NewProgressEventRepository instantiates the repository.
func NewProgressEventRepository(db *gorm.DB) ProgressEventRepository {
	return &progressEventRepository{db: db}
}

func (r *progressEventRepository) Create(ctx context.Context, event *models.ProgressEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *progressEventRepository) ListByRecipient(ctx context.Context, recipientID uint, limit, offset int) ([]models.ProgressEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var events []models.ProgressEvent
	if err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *progressEventRepository) MarkRead(ctx context.Context, id, recipientID uint) (models.ProgressEvent, error) {
	var event models.ProgressEvent
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("recipient_id = ?", recipientID).
		First(&event).Error; err != nil {
		return models.ProgressEvent{}, err
	}

	if !event.Read {
		event.Read = true
		if err := r.db.WithContext(ctx).Save(&event).Error; err != nil {
			return models.ProgressEvent{}, err
		}
	}

	return event, nil
}

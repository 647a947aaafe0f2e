package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sparrowhq/talent-api/internal/models"
)

// ProgressionRepository applies a round progression as a single transaction
// and keeps the receipts that make the operation replay-safe.
type ProgressionRepository interface {
	GetReceipt(ctx context.Context, idempotencyKey string) (models.ProgressionReceipt, error)
	Progress(ctx context.Context, receipt *models.ProgressionReceipt, statuses map[uint]string) error
}

type progressionRepository struct {
	db *gorm.DB
}

// NewProgressionRepository instantiates the repository.
func NewProgressionRepository(db *gorm.DB) ProgressionRepository {
	return &progressionRepository{db: db}
}

func (r *progressionRepository) GetReceipt(ctx context.Context, idempotencyKey string) (models.ProgressionReceipt, error) {
	var receipt models.ProgressionReceipt
	if err := r.db.WithContext(ctx).
		Where("idempotency_key = ?", idempotencyKey).
		First(&receipt).Error; err != nil {
		return models.ProgressionReceipt{}, err
	}

	return receipt, nil
}

// Progress moves the cohort in one transaction: statuses are persisted in the
// source round, carried unchanged into the target round, the target template
// is activated and the receipt is recorded. Either every step lands or none do.
func (r *progressionRepository) Progress(ctx context.Context, receipt *models.ProgressionReceipt, statuses map[uint]string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := func(templateID uint) error {
			rows := make([]models.CandidateRound, 0, len(statuses))
			for candidateID, status := range statuses {
				rows = append(rows, models.CandidateRound{
					CandidateID:        candidateID,
					JobRoundTemplateID: templateID,
					Status:             status,
					CreatedBy:          receipt.ActorID,
				})
			}
			if len(rows) == 0 {
				return nil
			}

			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "candidate_id"}, {Name: "job_round_template_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
			}).Create(&rows).Error
		}

		if err := upsert(receipt.FromTemplateID); err != nil {
			return err
		}

		if err := upsert(receipt.ToTemplateID); err != nil {
			return err
		}

		if err := tx.Model(&models.JobRoundTemplate{}).
			Where("id = ?", receipt.ToTemplateID).
			Update("is_active", true).Error; err != nil {
			return err
		}

		receipt.CandidateCount = len(statuses)

		return tx.Create(receipt).Error
	})
}

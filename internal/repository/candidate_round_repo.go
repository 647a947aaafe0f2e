package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sparrowhq/talent-api/internal/models"
)

// CandidateRoundRepository defines data operations for candidate rounds.
type CandidateRoundRepository interface {
	ListByTemplate(ctx context.Context, templateID uint) ([]models.CandidateRound, error)
	GetByID(ctx context.Context, id uint) (models.CandidateRound, error)
	GetByCandidateAndTemplate(ctx context.Context, candidateID, templateID uint) (models.CandidateRound, error)
	BulkUpsertStatus(ctx context.Context, templateID uint, statuses map[uint]string, actorID uint) error
	Update(ctx context.Context, round *models.CandidateRound) error
	MarkEvaluated(ctx context.Context, roundID uint, evaluation *models.Evaluation) error
}

type candidateRoundRepository struct {
	db *gorm.DB
}

// NewCandidateRoundRepository instantiates the repository.
func NewCandidateRoundRepository(db *gorm.DB) CandidateRoundRepository {
	return &candidateRoundRepository{db: db}
}

func (r *candidateRoundRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.CandidateRound{}).
		Preload("Candidate").
		Preload("Template").
		Preload("Evaluation")
}

func (r *candidateRoundRepository) ListByTemplate(ctx context.Context, templateID uint) ([]models.CandidateRound, error) {
	var rounds []models.CandidateRound
	if err := r.baseQuery(ctx).
		Where("job_round_template_id = ?", templateID).
		Order("candidate_id ASC").
		Find(&rounds).Error; err != nil {
		return nil, err
	}

	return rounds, nil
}

func (r *candidateRoundRepository) GetByID(ctx context.Context, id uint) (models.CandidateRound, error) {
	var round models.CandidateRound
	if err := r.baseQuery(ctx).First(&round, id).Error; err != nil {
		return models.CandidateRound{}, err
	}

	return round, nil
}

func (r *candidateRoundRepository) GetByCandidateAndTemplate(ctx context.Context, candidateID, templateID uint) (models.CandidateRound, error) {
	var round models.CandidateRound
	if err := r.baseQuery(ctx).
		Where("candidate_id = ?", candidateID).
		Where("job_round_template_id = ?", templateID).
		First(&round).Error; err != nil {
		return models.CandidateRound{}, err
	}

	return round, nil
}

// BulkUpsertStatus writes the status of each listed candidate within one
// round template, creating missing rows attributed to the actor.
func (r *candidateRoundRepository) BulkUpsertStatus(ctx context.Context, templateID uint, statuses map[uint]string, actorID uint) error {
	if len(statuses) == 0 {
		return nil
	}

	rows := make([]models.CandidateRound, 0, len(statuses))
	for candidateID, status := range statuses {
		rows = append(rows, models.CandidateRound{
			CandidateID:        candidateID,
			JobRoundTemplateID: templateID,
			Status:             status,
			CreatedBy:          actorID,
		})
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "candidate_id"}, {Name: "job_round_template_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&rows).Error
}

func (r *candidateRoundRepository) Update(ctx context.Context, round *models.CandidateRound) error {
	return r.db.WithContext(ctx).Save(round).Error
}

// MarkEvaluated stores the evaluation and flips the round's flag in one transaction.
func (r *candidateRoundRepository) MarkEvaluated(ctx context.Context, roundID uint, evaluation *models.Evaluation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		evaluation.CandidateRoundID = roundID
		if err := tx.Create(evaluation).Error; err != nil {
			return err
		}

		return tx.Model(&models.CandidateRound{}).
			Where("id = ?", roundID).
			Update("is_evaluation", true).Error
	})
}

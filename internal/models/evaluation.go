package models

import (
	"time"

	"gorm.io/datatypes"
)

// Evaluation stores the scored result attached to a candidate round.
type Evaluation struct {
	ID                     uint              `gorm:"primaryKey" json:"id"`
	CandidateRoundID       uint              `gorm:"not null;uniqueIndex" json:"candidate_round_id"`
	OverallPercentageScore float64           `gorm:"not null" json:"overall_percentage_score"`
	CompetencyScores       datatypes.JSONMap `gorm:"type:json" json:"competency_scores"`
	Summary                string            `gorm:"type:text" json:"summary"`
	Transcript             string            `gorm:"type:text" json:"transcript"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
}

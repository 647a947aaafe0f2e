package models

import "time"

// JobRoundTemplate defines one stage of a job's hiring pipeline.
// OrderIndex is strictly increasing within a job and defines the sequence
// candidates move through.
type JobRoundTemplate struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	JobOpeningID uint      `gorm:"not null;index" json:"job_opening_id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Type         string    `gorm:"size:32;not null" json:"type"`
	OrderIndex   int       `gorm:"not null" json:"order_index"`
	IsActive     bool      `gorm:"not null;default:false" json:"is_active"`
	IsRequired   bool      `gorm:"not null;default:true" json:"is_required"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	// RoundTypeInterview is a one-on-one interview stage.
	RoundTypeInterview = "INTERVIEW"
	// RoundTypeRapidFire is a timed short-answer stage.
	RoundTypeRapidFire = "RAPID_FIRE"
	// RoundTypeTalkOnATopic is a prepared-presentation stage.
	RoundTypeTalkOnATopic = "TALK_ON_A_TOPIC"
	// RoundTypeGamesArena is a game-based assessment stage.
	RoundTypeGamesArena = "GAMES_ARENA"
)

// RoundTypes lists the supported round types.
var RoundTypes = []string{RoundTypeInterview, RoundTypeRapidFire, RoundTypeTalkOnATopic, RoundTypeGamesArena}

// EvaluationBatchSize returns how many candidates are evaluated per batch for
// this round type. Interview transcripts are the heaviest to score, so they
// run in the smallest batches.
func (t JobRoundTemplate) EvaluationBatchSize() int {
	switch t.Type {
	case RoundTypeInterview:
		return 18
	case RoundTypeGamesArena:
		return 60
	case RoundTypeRapidFire, RoundTypeTalkOnATopic:
		return 40
	default:
		return 30
	}
}

// IsKnownRoundType reports whether the given type is one of the supported stages.
func IsKnownRoundType(roundType string) bool {
	for _, t := range RoundTypes {
		if t == roundType {
			return true
		}
	}
	return false
}

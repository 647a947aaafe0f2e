package models

import (
	"time"

	"gorm.io/datatypes"
)

// Candidate is a person in the hiring pipeline. Email doubles as the identity
// key when the same person appears under multiple job openings.
type Candidate struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	JobOpeningID uint           `gorm:"not null;index" json:"job_opening_id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Email        string         `gorm:"size:255;not null;index" json:"email"`
	Phone        string         `gorm:"size:32" json:"phone"`
	CustomFields datatypes.JSON `gorm:"type:json" json:"custom_fields"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Rounds       []CandidateRound `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"rounds,omitempty"`
}

// CustomFieldValue is one dynamic attribute captured for a candidate.
type CustomFieldValue struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

package models

import "time"

// JobOpening represents a single posting a recruiter hires for.
type JobOpening struct {
	ID               uint               `gorm:"primaryKey" json:"id"`
	Title            string             `gorm:"size:255;not null" json:"title"`
	Description      string             `gorm:"type:text" json:"description"`
	Status           string             `gorm:"size:32;not null;default:draft" json:"status"`
	HasRoundsStarted bool               `gorm:"not null;default:false" json:"has_rounds_started"`
	RecruiterID      uint               `gorm:"not null;index" json:"recruiter_id"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	RoundTemplates   []JobRoundTemplate `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"round_templates,omitempty"`
}

const (
	// JobStatusDraft marks an opening that is not yet published.
	JobStatusDraft = "draft"
	// JobStatusActive marks an opening accepting candidates.
	JobStatusActive = "active"
	// JobStatusPaused marks an opening temporarily withdrawn.
	JobStatusPaused = "paused"
	// JobStatusClosed marks an opening no longer hiring.
	JobStatusClosed = "closed"
)

// AcceptsCandidates reports whether new candidates may still enter the pipeline.
func (j JobOpening) AcceptsCandidates() bool {
	return j.Status == JobStatusActive
}

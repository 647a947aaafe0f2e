package models

import "time"

// RoundSetting is one typed key/value entry scoped either to a round template
// or to a whole job opening. Template-scoped entries win over job-scoped ones
// when both exist for the same key.
type RoundSetting struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	JobRoundTemplateID *uint     `gorm:"uniqueIndex:idx_template_key" json:"job_round_template_id,omitempty"`
	JobOpeningID       *uint     `gorm:"uniqueIndex:idx_job_key" json:"job_opening_id,omitempty"`
	Key                string    `gorm:"size:64;not null;uniqueIndex:idx_template_key;uniqueIndex:idx_job_key" json:"key"`
	Value              string    `gorm:"size:255;not null" json:"value"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

const (
	// SettingKeyAssessmentID names the external assessment used to evaluate a round.
	SettingKeyAssessmentID = "assessment_id"
	// SettingKeyBrandID names the brand configuration used by game-based rounds.
	SettingKeyBrandID = "brand_id"
)

const (
	// SettingSourceTemplate means the value came from a template-scoped entry.
	SettingSourceTemplate = "template"
	// SettingSourceJob means the value came from a job-level override.
	SettingSourceJob = "job"
	// SettingSourceDefault means the value fell back to the round-type default.
	SettingSourceDefault = "default"
)

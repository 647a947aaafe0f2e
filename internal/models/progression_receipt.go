package models

import "time"

// ProgressionReceipt records one completed round progression so a replayed
// request carrying the same idempotency key can return the original outcome
// instead of moving the cohort twice.
type ProgressionReceipt struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	IdempotencyKey string    `gorm:"size:64;not null;uniqueIndex" json:"idempotency_key"`
	JobOpeningID   uint      `gorm:"not null;index" json:"job_opening_id"`
	FromTemplateID uint      `gorm:"not null" json:"from_template_id"`
	ToTemplateID   uint      `gorm:"not null" json:"to_template_id"`
	ActorID        uint      `gorm:"not null" json:"actor_id"`
	CandidateCount int       `gorm:"not null" json:"candidate_count"`
	CreatedAt      time.Time `json:"created_at"`
}

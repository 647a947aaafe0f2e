package models

import (
	"time"

	"gorm.io/datatypes"
)

// View is a named grouping of job openings used for cross-job candidate screens.
type View struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	CreatedBy     uint           `gorm:"not null;index" json:"created_by"`
	JobOpeningIDs datatypes.JSON `gorm:"type:json" json:"job_opening_ids"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

package dto

import (
	"time"

	"github.com/sparrowhq/talent-api/internal/models"
)

// ResumeUploadRequest carries a base64-encoded resume file.
type ResumeUploadRequest struct {
	CandidateID   uint   `json:"candidate_id" validate:"required,gt=0"`
	FileName      string `json:"file_name" validate:"required,min=1,max=255"`
	ContentBase64 string `json:"content_base64" validate:"required"`
}

// ResumeResponse is returned to API clients when viewing stored resumes.
type ResumeResponse struct {
	ID          uint      `json:"id"`
	CandidateID uint      `json:"candidate_id"`
	FileName    string    `json:"file_name"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewResumeResponse converts a Resume model into a DTO.
func NewResumeResponse(model models.Resume) ResumeResponse {
	return ResumeResponse{
		ID:          model.ID,
		CandidateID: model.CandidateID,
		FileName:    model.FileName,
		URL:         model.URL,
		ContentType: model.ContentType,
		SizeBytes:   model.SizeBytes,
		CreatedAt:   model.CreatedAt,
	}
}

package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/models"
	"github.com/sparrowhq/talent-api/internal/repository"
)

const maxResumeSizeBytes = 10 << 20

var (
	// ErrResumeNotFound indicates no resume is stored for the candidate.
	ErrResumeNotFound = errors.New("resume not found")
	// ErrResumeTooLarge indicates the decoded file exceeds the size limit.
	ErrResumeTooLarge = errors.New("resume exceeds maximum allowed size")
	// ErrUnsupportedResumeType indicates the file is not a recognized document format.
	ErrUnsupportedResumeType = errors.New("unsupported resume file type")
)

var allowedResumeTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// FileUploader stores a file and returns its public URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// ResumeService manages candidate resume uploads and retrieval.
type ResumeService interface {
	Upload(ctx context.Context, actor uint, payload dto.ResumeUploadRequest) (dto.ResumeResponse, error)
	GetByCandidate(ctx context.Context, candidateID uint) (dto.ResumeResponse, error)
	DeleteByCandidate(ctx context.Context, actor, candidateID uint) error
}

type resumeService struct {
	resumes    repository.ResumeRepository
	candidates repository.CandidateRepository
	uploader   FileUploader
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewResumeService constructs a ResumeService instance.
func NewResumeService(resumes repository.ResumeRepository, candidates repository.CandidateRepository, uploader FileUploader, validate *validator.Validate, logger zerolog.Logger) ResumeService {
	return &resumeService{
		resumes:    resumes,
		candidates: candidates,
		uploader:   uploader,
		validator:  validate,
		logger:     logger.With().Str("component", "resume_service").Logger(),
	}
}

func (s *resumeService) Upload(ctx context.Context, actor uint, payload dto.ResumeUploadRequest) (dto.ResumeResponse, error) {
	if actor == 0 {
		return dto.ResumeResponse{}, ErrActorRequired
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.ResumeResponse{}, err
	}

	if _, err := s.candidates.GetByID(ctx, payload.CandidateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResumeResponse{}, ErrCandidateNotFound
		}
		return dto.ResumeResponse{}, err
	}

	content, err := base64.StdEncoding.DecodeString(payload.ContentBase64)
	if err != nil {
		return dto.ResumeResponse{}, fmt.Errorf("invalid base64 resume content: %w", err)
	}

	if len(content) > maxResumeSizeBytes {
		return dto.ResumeResponse{}, ErrResumeTooLarge
	}

	detected := mimetype.Detect(content)
	if _, ok := allowedResumeTypes[detected.String()]; !ok {
		return dto.ResumeResponse{}, fmt.Errorf("%w: %s", ErrUnsupportedResumeType, detected.String())
	}

	url, err := s.uploader.Upload(ctx, payload.FileName, bytes.NewReader(content))
	if err != nil {
		return dto.ResumeResponse{}, fmt.Errorf("failed to store resume: %w", err)
	}

	resume := models.Resume{
		CandidateID: payload.CandidateID,
		FileName:    payload.FileName,
		URL:         url,
		ContentType: detected.String(),
		SizeBytes:   int64(len(content)),
	}

	if err := s.resumes.Create(ctx, &resume); err != nil {
		return dto.ResumeResponse{}, err
	}

	s.logger.Info().
		Uint("candidate_id", payload.CandidateID).
		Str("content_type", resume.ContentType).
		Int64("size_bytes", resume.SizeBytes).
		Msg("resume stored")

	return dto.NewResumeResponse(resume), nil
}

func (s *resumeService) GetByCandidate(ctx context.Context, candidateID uint) (dto.ResumeResponse, error) {
	resume, err := s.resumes.GetByCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResumeResponse{}, ErrResumeNotFound
		}
		return dto.ResumeResponse{}, err
	}

	return dto.NewResumeResponse(resume), nil
}

func (s *resumeService) DeleteByCandidate(ctx context.Context, actor, candidateID uint) error {
	if actor == 0 {
		return ErrActorRequired
	}

	if _, err := s.resumes.GetByCandidate(ctx, candidateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResumeNotFound
		}
		return err
	}

	return s.resumes.DeleteByCandidate(ctx, candidateID)
}

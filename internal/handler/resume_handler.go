package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/service"
	"github.com/sparrowhq/talent-api/internal/utils"
)

// ResumeHandler manages resume upload and retrieval endpoints.
type ResumeHandler struct {
	service service.ResumeService
	logger  zerolog.Logger
}

// NewResumeHandler constructs the handler.
func NewResumeHandler(service service.ResumeService, logger zerolog.Logger) *ResumeHandler {
	return &ResumeHandler{
		service: service,
		logger:  logger.With().Str("component", "resume_handler").Logger(),
	}
}

// Register wires routes for resumes.
func (h *ResumeHandler) Register(router fiber.Router) {
	router.Post("/", h.upload)
	router.Get("/candidate/:candidateId", h.getByCandidate)
	router.Delete("/candidate/:candidateId", h.deleteByCandidate)
}

func (h *ResumeHandler) upload(c *fiber.Ctx) error {
	var payload dto.ResumeUploadRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resume, err := h.service.Upload(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "resume uploaded", resume)
}

func (h *ResumeHandler) getByCandidate(c *fiber.Ctx) error {
	candidateID, err := parseUintParam(c, "candidateId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid candidate id")
	}

	resume, err := h.service.GetByCandidate(c.UserContext(), candidateID)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "resume retrieved", resume)
}

func (h *ResumeHandler) deleteByCandidate(c *fiber.Ctx) error {
	candidateID, err := parseUintParam(c, "candidateId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid candidate id")
	}

	if err := h.service.DeleteByCandidate(c.UserContext(), userIDFromContext(c), candidateID); err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "resume deleted", nil)
}

func (h *ResumeHandler) mapError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrActorRequired):
		return utils.SendError(c, fiber.StatusUnauthorized, "authenticated actor is required")
	case errors.Is(err, service.ErrCandidateNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "candidate not found")
	case errors.Is(err, service.ErrResumeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "resume not found")
	case errors.Is(err, service.ErrResumeTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "resume exceeds maximum allowed size")
	case errors.Is(err, service.ErrUnsupportedResumeType):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, "unsupported resume file type")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

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

// CandidateHandler manages candidate endpoints.
type CandidateHandler struct {
	service service.CandidateService
	logger  zerolog.Logger
}

// NewCandidateHandler constructs the handler.
func NewCandidateHandler(service service.CandidateService, logger zerolog.Logger) *CandidateHandler {
	return &CandidateHandler{
		service: service,
		logger:  logger.With().Str("component", "candidate_handler").Logger(),
	}
}

// Register wires routes for candidates.
func (h *CandidateHandler) Register(router fiber.Router) {
	router.Get("/job/:jobId", h.listByJob)
	router.Post("/", h.create)
	router.Get("/:id", h.get)
}

func (h *CandidateHandler) listByJob(c *fiber.Ctx) error {
	jobID, err := parseUintParam(c, "jobId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid job id")
	}

	sortByScore := c.Query("sort") == "score"

	candidates, err := h.service.ListByJob(c.UserContext(), jobID, sortByScore)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "candidates retrieved", candidates)
}

func (h *CandidateHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid candidate id")
	}

	candidate, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "candidate retrieved", candidate)
}

func (h *CandidateHandler) create(c *fiber.Ctx) error {
	var payload dto.CandidateCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	candidate, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "candidate created", candidate)
}

func (h *CandidateHandler) mapError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrCandidateNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "candidate not found")
	case errors.Is(err, service.ErrJobNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "job opening not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

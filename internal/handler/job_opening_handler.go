package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/repository"
	"github.com/sparrowhq/talent-api/internal/service"
	"github.com/sparrowhq/talent-api/internal/utils"
)

// JobOpeningHandler manages job opening endpoints.
type JobOpeningHandler struct {
	service service.JobOpeningService
	logger  zerolog.Logger
}

// NewJobOpeningHandler constructs the handler.
func NewJobOpeningHandler(service service.JobOpeningService, logger zerolog.Logger) *JobOpeningHandler {
	return &JobOpeningHandler{
		service: service,
		logger:  logger.With().Str("component", "job_opening_handler").Logger(),
	}
}

// Register wires routes for job openings.
func (h *JobOpeningHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Post("/", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/start-rounds", h.startRounds)
}

func (h *JobOpeningHandler) list(c *fiber.Ctx) error {
	var filter repository.JobOpeningFilter

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		filter.Status = &raw
	}
	if mine := c.QueryBool("mine"); mine {
		recruiterID := userIDFromContext(c)
		filter.RecruiterID = &recruiterID
	}

	jobs, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list job openings")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list job openings")
	}

	return utils.SendSuccess(c, "job openings retrieved", jobs)
}

func (h *JobOpeningHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid job id")
	}

	job, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "job opening retrieved", job)
}

func (h *JobOpeningHandler) create(c *fiber.Ctx) error {
	var payload dto.JobOpeningCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	job, err := h.service.Create(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "job opening created", job)
}

func (h *JobOpeningHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid job id")
	}

	var payload dto.JobOpeningUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	job, err := h.service.Update(c.UserContext(), id, payload)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "job opening updated", job)
}

func (h *JobOpeningHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid job id")
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "job opening deleted", nil)
}

func (h *JobOpeningHandler) startRounds(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid job id")
	}

	job, err := h.service.StartRounds(c.UserContext(), userIDFromContext(c), id)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "rounds started", job)
}

func (h *JobOpeningHandler) mapError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrJobNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "job opening not found")
	case errors.Is(err, service.ErrActorRequired):
		return utils.SendError(c, fiber.StatusUnauthorized, "authenticated actor is required")
	case errors.Is(err, service.ErrRoundsAlreadyStarted):
		return utils.SendError(c, fiber.StatusConflict, "rounds already started for job")
	case errors.Is(err, service.ErrNoRoundTemplates):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "job has no round templates")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

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

// RoundTemplateHandler manages round template endpoints.
type RoundTemplateHandler struct {
	service service.RoundTemplateService
	logger  zerolog.Logger
}

// NewRoundTemplateHandler constructs the handler.
func NewRoundTemplateHandler(service service.RoundTemplateService, logger zerolog.Logger) *RoundTemplateHandler {
	return &RoundTemplateHandler{
		service: service,
		logger:  logger.With().Str("component", "round_template_handler").Logger(),
	}
}

// Register wires routes for round templates.
func (h *RoundTemplateHandler) Register(router fiber.Router) {
	router.Get("/job/:jobId", h.listByJob)
	router.Post("/", h.create)
	router.Get("/:id", h.get)
	router.Post("/:id/confirm", h.confirm)
}

func (h *RoundTemplateHandler) listByJob(c *fiber.Ctx) error {
	jobID, err := parseUintParam(c, "jobId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid job id")
	}

	templates, err := h.service.ListByJob(c.UserContext(), jobID)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "round templates retrieved", templates)
}

func (h *RoundTemplateHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid template id")
	}

	template, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "round template retrieved", template)
}

func (h *RoundTemplateHandler) create(c *fiber.Ctx) error {
	var payload dto.RoundTemplateCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	template, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "round template created", template)
}

func (h *RoundTemplateHandler) confirm(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid template id")
	}

	template, err := h.service.Confirm(c.UserContext(), id)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "round template confirmed", template)
}

func (h *RoundTemplateHandler) mapError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "round template not found")
	case errors.Is(err, service.ErrJobNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "job opening not found")
	case errors.Is(err, service.ErrOrderIndexNotIncreasing):
		return utils.SendError(c, fiber.StatusConflict, "order index must exceed existing rounds")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

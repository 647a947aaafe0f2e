package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sparrowhq/talent-api/internal/service"
	"github.com/sparrowhq/talent-api/internal/utils"
)

// EvaluationHandler exposes bulk evaluation run endpoints.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler constructs the handler.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register wires routes for evaluation runs, keyed by round template.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Post("/:templateId/run", h.startRun)
	router.Get("/:templateId/run", h.getRun)
}

func (h *EvaluationHandler) startRun(c *fiber.Ctx) error {
	templateID, err := parseUintParam(c, "templateId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid template id")
	}

	run, err := h.service.StartRun(c.UserContext(), userIDFromContext(c), templateID)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "evaluation run finished", run)
}

func (h *EvaluationHandler) getRun(c *fiber.Ctx) error {
	templateID, err := parseUintParam(c, "templateId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid template id")
	}

	run, err := h.service.GetRun(templateID)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "evaluation run retrieved", run)
}

func (h *EvaluationHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrActorRequired):
		return utils.SendError(c, fiber.StatusUnauthorized, "authenticated actor is required")
	case errors.Is(err, service.ErrTemplateNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "round template not found")
	case errors.Is(err, service.ErrRunInProgress):
		return utils.SendError(c, fiber.StatusConflict, "evaluation run already in progress for round")
	case errors.Is(err, service.ErrRunNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "no evaluation run for round")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

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

// ProgressionHandler exposes the round progression endpoint.
type ProgressionHandler struct {
	service service.ProgressionService
	logger  zerolog.Logger
}

// NewProgressionHandler constructs the handler.
func NewProgressionHandler(service service.ProgressionService, logger zerolog.Logger) *ProgressionHandler {
	return &ProgressionHandler{
		service: service,
		logger:  logger.With().Str("component", "progression_handler").Logger(),
	}
}

// Register wires the progression route.
func (h *ProgressionHandler) Register(router fiber.Router) {
	router.Post("/", h.progress)
}

func (h *ProgressionHandler) progress(c *fiber.Ctx) error {
	var payload dto.ProgressRoundRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.ProgressRound(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		return h.mapError(c, err)
	}

	if result.Replayed {
		return utils.SendSuccess(c, "round already progressed", result)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "round progressed", result)
}

func (h *ProgressionHandler) mapError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrActorRequired):
		return utils.SendError(c, fiber.StatusUnauthorized, "authenticated actor is required")
	case errors.Is(err, service.ErrJobNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "job opening not found")
	case errors.Is(err, service.ErrTemplateNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "round template not found")
	case errors.Is(err, service.ErrLastRound):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "no next round to progress into")
	case errors.Is(err, service.ErrEmptyRound):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "round has no candidates")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

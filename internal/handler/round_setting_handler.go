package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/service"
	"github.com/sparrowhq/talent-api/internal/utils"
)

// RoundSettingHandler manages per-round setting endpoints.
type RoundSettingHandler struct {
	service service.RoundSettingService
	logger  zerolog.Logger
}

// NewRoundSettingHandler constructs the handler.
func NewRoundSettingHandler(service service.RoundSettingService, logger zerolog.Logger) *RoundSettingHandler {
	return &RoundSettingHandler{
		service: service,
		logger:  logger.With().Str("component", "round_setting_handler").Logger(),
	}
}

// Register wires routes for round settings.
func (h *RoundSettingHandler) Register(router fiber.Router) {
	router.Put("/", h.put)
	router.Get("/resolve/:templateId/:key", h.resolve)
}

func (h *RoundSettingHandler) put(c *fiber.Ctx) error {
	var payload dto.RoundSettingPutRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	setting, err := h.service.Put(c.UserContext(), payload)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "setting stored", setting)
}

func (h *RoundSettingHandler) resolve(c *fiber.Ctx) error {
	templateID, err := parseUintParam(c, "templateId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid template id")
	}

	key := strings.TrimSpace(c.Params("key"))
	if key == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "setting key required")
	}

	setting, err := h.service.Resolve(c.UserContext(), templateID, key)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "setting resolved", setting)
}

func (h *RoundSettingHandler) mapError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrSettingNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "round setting not found")
	case errors.Is(err, service.ErrSettingScopeRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "setting must be scoped to a template or a job")
	case errors.Is(err, service.ErrTemplateNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "round template not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

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

// DraftHandler manages per-recruiter status draft endpoints.
type DraftHandler struct {
	service service.DraftService
	logger  zerolog.Logger
}

// NewDraftHandler constructs the handler.
func NewDraftHandler(service service.DraftService, logger zerolog.Logger) *DraftHandler {
	return &DraftHandler{
		service: service,
		logger:  logger.With().Str("component", "draft_handler").Logger(),
	}
}

// Register wires routes for drafts. All routes operate on the draft owned by
// the authenticated recruiter for the given round template.
func (h *DraftHandler) Register(router fiber.Router) {
	router.Post("/:templateId/load", h.load)
	router.Get("/:templateId", h.get)
	router.Patch("/:templateId/status", h.setStatus)
	router.Post("/:templateId/save", h.save)
	router.Delete("/:templateId", h.discard)
}

func (h *DraftHandler) load(c *fiber.Ctx) error {
	recruiterID, templateID, err := h.scope(c)
	if err != nil {
		return err
	}

	draft, err := h.service.Load(c.UserContext(), recruiterID, templateID)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "draft loaded", draft)
}

func (h *DraftHandler) get(c *fiber.Ctx) error {
	recruiterID, templateID, err := h.scope(c)
	if err != nil {
		return err
	}

	draft, err := h.service.Get(c.UserContext(), recruiterID, templateID)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "draft retrieved", draft)
}

func (h *DraftHandler) setStatus(c *fiber.Ctx) error {
	recruiterID, templateID, err := h.scope(c)
	if err != nil {
		return err
	}

	var payload dto.DraftSetStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	draft, err := h.service.SetStatus(c.UserContext(), recruiterID, templateID, payload)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "draft status updated", draft)
}

func (h *DraftHandler) save(c *fiber.Ctx) error {
	recruiterID, templateID, err := h.scope(c)
	if err != nil {
		return err
	}

	draft, err := h.service.Save(c.UserContext(), recruiterID, templateID)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "draft saved", draft)
}

func (h *DraftHandler) discard(c *fiber.Ctx) error {
	recruiterID, templateID, err := h.scope(c)
	if err != nil {
		return err
	}

	if err := h.service.Discard(c.UserContext(), recruiterID, templateID); err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "draft discarded", nil)
}

func (h *DraftHandler) scope(c *fiber.Ctx) (recruiterID, templateID uint, err error) {
	recruiterID = userIDFromContext(c)
	if recruiterID == 0 {
		return 0, 0, utils.SendError(c, fiber.StatusUnauthorized, "authenticated actor is required")
	}

	templateID, parseErr := parseUintParam(c, "templateId")
	if parseErr != nil {
		return 0, 0, utils.SendError(c, fiber.StatusBadRequest, "invalid template id")
	}

	return recruiterID, templateID, nil
}

func (h *DraftHandler) mapError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrDraftNotLoaded):
		return utils.SendError(c, fiber.StatusNotFound, "draft not loaded for round")
	case errors.Is(err, service.ErrUnknownCandidate):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "candidate not in round snapshot")
	case errors.Is(err, service.ErrTemplateNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "round template not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/models"
	"github.com/sparrowhq/talent-api/internal/service"
	"github.com/sparrowhq/talent-api/internal/utils"
)

// ViewHandler manages cross-job view endpoints.
type ViewHandler struct {
	service service.ViewService
	logger  zerolog.Logger
}

// NewViewHandler constructs the handler.
func NewViewHandler(service service.ViewService, logger zerolog.Logger) *ViewHandler {
	return &ViewHandler{
		service: service,
		logger:  logger.With().Str("component", "view_handler").Logger(),
	}
}

// Register wires routes for views.
func (h *ViewHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Post("/", h.create)
	router.Delete("/:id", h.delete)
	router.Get("/:id/candidates", h.aggregate)
}

func (h *ViewHandler) list(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authenticated actor is required")
	}

	views, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "views retrieved", views)
}

func (h *ViewHandler) create(c *fiber.Ctx) error {
	var payload dto.ViewCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	view, err := h.service.Create(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "view created", view)
}

func (h *ViewHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid view id")
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.mapError(c, err)
	}

	return utils.SendSuccess(c, "view deleted", nil)
}

func (h *ViewHandler) aggregate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid view id")
	}

	roundType := strings.TrimSpace(c.Query("round_type"))
	if !models.IsKnownRoundType(roundType) {
		return utils.SendError(c, fiber.StatusBadRequest, "unknown round type")
	}
	roundName := strings.TrimSpace(c.Query("round_name"))

	result, err := h.service.AggregateCandidates(c.UserContext(), id, roundType, roundName)
	if err != nil {
		return h.mapError(c, err)
	}

	if result.CacheHit {
		c.Set("X-Cache-Hit", "true")
	} else {
		c.Set("X-Cache-Hit", "false")
	}

	return utils.SendSuccess(c, "view candidates aggregated", result)
}

func (h *ViewHandler) mapError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrViewNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "view not found")
	case errors.Is(err, service.ErrJobNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "job opening not found")
	case errors.Is(err, service.ErrActorRequired):
		return utils.SendError(c, fiber.StatusUnauthorized, "authenticated actor is required")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

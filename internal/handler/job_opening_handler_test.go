package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/handler"
	"github.com/sparrowhq/talent-api/internal/repository"
	"github.com/sparrowhq/talent-api/internal/service"
)

type mockJobOpeningService struct {
	lastFilter repository.JobOpeningFilter
	lastActor  uint
	listResp   []dto.JobOpeningResponse
	single     dto.JobOpeningResponse
	err        error
}

func (m *mockJobOpeningService) List(_ context.Context, filter repository.JobOpeningFilter) ([]dto.JobOpeningResponse, error) {
	m.lastFilter = filter
	return m.listResp, m.err
}

func (m *mockJobOpeningService) Get(_ context.Context, _ uint) (dto.JobOpeningResponse, error) {
	return m.single, m.err
}

func (m *mockJobOpeningService) Create(_ context.Context, actor uint, _ dto.JobOpeningCreateRequest) (dto.JobOpeningResponse, error) {
	m.lastActor = actor
	return m.single, m.err
}

func (m *mockJobOpeningService) Update(_ context.Context, _ uint, _ dto.JobOpeningUpdateRequest) (dto.JobOpeningResponse, error) {
	return m.single, m.err
}

func (m *mockJobOpeningService) Delete(_ context.Context, _ uint) error {
	return m.err
}

func (m *mockJobOpeningService) StartRounds(_ context.Context, actor, _ uint) (dto.JobOpeningResponse, error) {
	m.lastActor = actor
	return m.single, m.err
}

func newJobOpeningApp(svc service.JobOpeningService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/job-openings", withUser(7))
	handler.NewJobOpeningHandler(svc, testLogger()).Register(group)
	return app
}

func TestJobOpeningHandler_ListMineFilter(t *testing.T) {
	svc := &mockJobOpeningService{listResp: []dto.JobOpeningResponse{{ID: 1, Title: "Backend Engineer"}}}
	app := newJobOpeningApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/job-openings?status=active&mine=true", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NotNil(t, svc.lastFilter.Status)
	require.Equal(t, "active", *svc.lastFilter.Status)
	require.NotNil(t, svc.lastFilter.RecruiterID)
	require.Equal(t, uint(7), *svc.lastFilter.RecruiterID)
}

func TestJobOpeningHandler_Create(t *testing.T) {
	svc := &mockJobOpeningService{single: dto.JobOpeningResponse{ID: 3, Title: "Backend Engineer", Status: "draft"}}
	app := newJobOpeningApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/job-openings", strings.NewReader(`{"title":"Backend Engineer"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, uint(7), svc.lastActor)

	var body struct {
		Message string                 `json:"message"`
		Data    dto.JobOpeningResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, "job opening created", body.Message)
	require.Equal(t, uint(3), body.Data.ID)
}

func TestJobOpeningHandler_StartRoundsConflict(t *testing.T) {
	svc := &mockJobOpeningService{err: service.ErrRoundsAlreadyStarted}
	app := newJobOpeningApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/job-openings/3/start-rounds", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestJobOpeningHandler_GetNotFound(t *testing.T) {
	svc := &mockJobOpeningService{err: service.ErrJobNotFound}
	app := newJobOpeningApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/job-openings/9999", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.False(t, body.Success)
	require.Equal(t, "job opening not found", body.Message)
}

func TestJobOpeningHandler_InvalidID(t *testing.T) {
	svc := &mockJobOpeningService{}
	app := newJobOpeningApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/job-openings/oops", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

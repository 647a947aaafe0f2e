package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/handler"
	"github.com/sparrowhq/talent-api/internal/service"
)

type mockEvaluationService struct {
	lastActor    uint
	lastTemplate uint
	startResp    dto.EvaluationRunResponse
	startErr     error
	getResp      dto.EvaluationRunResponse
	getErr       error
}

func (m *mockEvaluationService) StartRun(_ context.Context, actor, templateID uint) (dto.EvaluationRunResponse, error) {
	m.lastActor = actor
	m.lastTemplate = templateID
	if m.startErr != nil {
		return dto.EvaluationRunResponse{}, m.startErr
	}
	return m.startResp, nil
}

func (m *mockEvaluationService) GetRun(templateID uint) (dto.EvaluationRunResponse, error) {
	m.lastTemplate = templateID
	if m.getErr != nil {
		return dto.EvaluationRunResponse{}, m.getErr
	}
	return m.getResp, nil
}

func newEvaluationApp(svc service.EvaluationService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/evaluations", withUser(7))
	handler.NewEvaluationHandler(svc, testLogger()).Register(group)
	return app
}

func TestEvaluationHandler_StartRun(t *testing.T) {
	finished := time.Now()
	svc := &mockEvaluationService{startResp: dto.EvaluationRunResponse{
		JobRoundTemplateID: 11,
		State:              "completed",
		Total:              5,
		Completed:          5,
		SuccessCount:       4,
		MissedRoundCount:   1,
		FinishedAt:         &finished,
	}}
	app := newEvaluationApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluations/11/run", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                      `json:"success"`
		Data    dto.EvaluationRunResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)

	require.True(t, body.Success)
	require.Equal(t, "completed", body.Data.State)
	require.Equal(t, 4, body.Data.SuccessCount)
	require.Equal(t, uint(7), svc.lastActor)
	require.Equal(t, uint(11), svc.lastTemplate)
}

func TestEvaluationHandler_RunInProgress(t *testing.T) {
	svc := &mockEvaluationService{startErr: service.ErrRunInProgress}
	app := newEvaluationApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluations/11/run", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestEvaluationHandler_GetRunNotFound(t *testing.T) {
	svc := &mockEvaluationService{getErr: service.ErrRunNotFound}
	app := newEvaluationApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evaluations/11/run", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestEvaluationHandler_InvalidTemplateID(t *testing.T) {
	svc := &mockEvaluationService{}
	app := newEvaluationApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evaluations/oops/run", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

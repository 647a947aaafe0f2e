package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sparrowhq/talent-api/internal/config"
	"github.com/sparrowhq/talent-api/internal/handler"
	"github.com/sparrowhq/talent-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	JobOpeningHandler    *handler.JobOpeningHandler
	RoundTemplateHandler *handler.RoundTemplateHandler
	CandidateHandler     *handler.CandidateHandler
	DraftHandler         *handler.DraftHandler
	ProgressionHandler   *handler.ProgressionHandler
	EvaluationHandler    *handler.EvaluationHandler
	ViewHandler          *handler.ViewHandler
	ResumeHandler        *handler.ResumeHandler
	RoundSettingHandler  *handler.RoundSettingHandler
	EventHandler         *handler.EventHandler
	JWTMiddleware        fiber.Handler
	EvaluationRateLimit  fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.JobOpeningHandler != nil {
		deps.JobOpeningHandler.Register(api.Group("/job-openings", jwtMiddleware))
	}

	if deps.RoundTemplateHandler != nil {
		deps.RoundTemplateHandler.Register(api.Group("/round-templates", jwtMiddleware))
	}

	if deps.CandidateHandler != nil {
		deps.CandidateHandler.Register(api.Group("/candidates", jwtMiddleware))
	}

	if deps.DraftHandler != nil {
		deps.DraftHandler.Register(api.Group("/drafts", jwtMiddleware))
	}

	if deps.ProgressionHandler != nil {
		deps.ProgressionHandler.Register(api.Group("/progressions", jwtMiddleware))
	}

	if deps.EvaluationHandler != nil {
		evaluations := api.Group("/evaluations", jwtMiddleware)
		if deps.EvaluationRateLimit != nil {
			evaluations.Use(deps.EvaluationRateLimit)
		}
		deps.EvaluationHandler.Register(evaluations)
	}

	if deps.ViewHandler != nil {
		deps.ViewHandler.Register(api.Group("/views", jwtMiddleware))
	}

	if deps.ResumeHandler != nil {
		deps.ResumeHandler.Register(api.Group("/resumes", jwtMiddleware))
	}

	if deps.RoundSettingHandler != nil {
		deps.RoundSettingHandler.Register(api.Group("/round-settings", jwtMiddleware))
	}

	if deps.EventHandler != nil {
		deps.EventHandler.Register(api.Group("/events", jwtMiddleware))
	}
}

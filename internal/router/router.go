package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/noah-isme/gema-quiz-api/internal/config"
	"github.com/noah-isme/gema-quiz-api/internal/handler"
	"github.com/noah-isme/gema-quiz-api/internal/middleware"
	"github.com/noah-isme/gema-quiz-api/internal/observability"
	"github.com/noah-isme/gema-quiz-api/internal/service"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	QuestionHandler      *handler.QuestionHandler
	AdminQuestionHandler *handler.AdminQuestionHandler
	TrackingHandler      *handler.TrackingHandler
	DashboardHandler     *handler.DashboardHandler
	PresenceHandler      *handler.PresenceHandler
	PageTitleHandler     *handler.PageTitleHandler
	AuthHandler          *handler.AuthHandler
	Questions            service.QuestionService
	SessionStore         *session.Store
	TrackLimiter         fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	}, middleware.SessionAuth(deps.SessionStore, cfg.JWTSecret))
	api.Get("/health", handler.HealthCheck(cfg, deps.Questions))

	adminGuard := middleware.RequireAdmin()

	if deps.QuestionHandler != nil {
		deps.QuestionHandler.Register(api)
	}
	if deps.AdminQuestionHandler != nil {
		deps.AdminQuestionHandler.Register(api.Group("/admin", adminGuard))
	}
	if deps.TrackingHandler != nil {
		deps.TrackingHandler.Register(api, deps.TrackLimiter)
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(api.Group("/dashboard", adminGuard))
		deps.DashboardHandler.RegisterQuizProgress(api.Group("/quiz_dashboard", adminGuard))
	}
	if deps.PresenceHandler != nil {
		deps.PresenceHandler.Register(api)
	}
	if deps.PageTitleHandler != nil {
		deps.PageTitleHandler.Register(api, adminGuard)
	}
	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api)
	}
}

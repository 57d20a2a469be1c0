package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-quiz-api/internal/repository"
	"github.com/noah-isme/gema-quiz-api/internal/service"
	"github.com/noah-isme/gema-quiz-api/internal/utils"
)

// DashboardHandler serves the admin session dashboards.
type DashboardHandler struct {
	service service.SessionAnalyticsService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the dashboard handler.
func NewDashboardHandler(service service.SessionAnalyticsService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register wires the session dashboard routes.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/sessions", h.sessions)
	router.Get("/session/:id", h.session)
	router.Delete("/session/:id", h.deleteSession)
}

// RegisterQuizProgress wires the quiz progress dashboard route.
func (h *DashboardHandler) RegisterQuizProgress(router fiber.Router) {
	router.Get("/data", h.quizProgress)
}

func (h *DashboardHandler) sessions(c *fiber.Ctx) error {
	summaries, err := h.service.ListSessions(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list sessions")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to load sessions")
	}
	return utils.SendJSON(c, fiber.StatusOK, summaries)
}

func (h *DashboardHandler) session(c *fiber.Ctx) error {
	events, err := h.service.GetSession(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "Session not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to read session")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to read session")
	}
	return utils.SendJSON(c, fiber.StatusOK, events)
}

func (h *DashboardHandler) deleteSession(c *fiber.Ctx) error {
	if err := h.service.DeleteSession(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "Session not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete session")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to delete session")
	}
	return utils.SendOK(c, "Session deleted")
}

func (h *DashboardHandler) quizProgress(c *fiber.Ctx) error {
	progress, err := h.service.QuizProgress(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute quiz progress")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to load quiz progress")
	}
	return utils.SendJSON(c, fiber.StatusOK, progress)
}

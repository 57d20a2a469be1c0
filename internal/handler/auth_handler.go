package handler

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-quiz-api/internal/dto"
	"github.com/noah-isme/gema-quiz-api/internal/middleware"
	"github.com/noah-isme/gema-quiz-api/internal/service"
	"github.com/noah-isme/gema-quiz-api/internal/utils"
)

// AuthHandler handles admin login and the per-user quiz state kept in the session.
type AuthHandler struct {
	service service.AuthService
	store   *session.Store
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, store *session.Store, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		store:   store,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the auth and session routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/auth/login", h.login)
	router.Post("/auth/logout", h.logout)
	router.Get("/session", middleware.RequireLogin(), h.getQuizState)
	router.Post("/session", middleware.RequireLogin(), h.saveQuizState)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Invalid payload")
	}

	response, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return utils.SendError(c, fiber.StatusUnauthorized, "Invalid credentials")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to issue token")
		return utils.SendError(c, fiber.StatusInternalServerError, "Login failed")
	}

	sess, err := h.store.Get(c)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to open session")
		return utils.SendError(c, fiber.StatusInternalServerError, "Login failed")
	}
	if err := sess.Regenerate(); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to rotate session")
		return utils.SendError(c, fiber.StatusInternalServerError, "Login failed")
	}
	sess.Set(middleware.SessionKeyLoggedIn, true)
	sess.Set(middleware.SessionKeyRole, service.RoleAdmin)
	sess.Set(middleware.SessionKeyUsername, payload.Username)
	if err := sess.Save(); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to save session")
		return utils.SendError(c, fiber.StatusInternalServerError, "Login failed")
	}

	return utils.SendJSON(c, fiber.StatusOK, response)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			requestLogger(h.logger, c).Warn().Err(err).Msg("failed to destroy session")
		}
	}
	return utils.SendOK(c, "")
}

func (h *AuthHandler) getQuizState(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	state := map[string]interface{}{}
	if raw, ok := sess.Get(middleware.SessionKeyQuizState).(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &state); err != nil {
			requestLogger(h.logger, c).Warn().Err(err).Msg("discarding unreadable quiz state")
			state = map[string]interface{}{}
		}
	}
	return utils.SendJSON(c, fiber.StatusOK, state)
}

func (h *AuthHandler) saveQuizState(c *fiber.Ctx) error {
	var payload dto.QuizStateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Invalid payload")
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Invalid payload")
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	sess.Set(middleware.SessionKeyQuizState, string(encoded))
	if err := sess.Save(); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to save quiz state")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to save quiz state")
	}
	return utils.SendOK(c, "")
}

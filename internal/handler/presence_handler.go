package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-quiz-api/internal/dto"
	"github.com/noah-isme/gema-quiz-api/internal/service"
	"github.com/noah-isme/gema-quiz-api/internal/utils"
)

const msgMissingPresence = "Missing sessionId or page"

// PresenceHandler exposes the live "who is on this page" counters.
type PresenceHandler struct {
	service service.PresenceService
	logger  zerolog.Logger
}

// NewPresenceHandler constructs a presence handler.
func NewPresenceHandler(service service.PresenceService, logger zerolog.Logger) *PresenceHandler {
	return &PresenceHandler{
		service: service,
		logger:  logger.With().Str("component", "presence_handler").Logger(),
	}
}

// Register wires presence routes.
func (h *PresenceHandler) Register(router fiber.Router) {
	router.Post("/active-user", h.mark)
	router.Get("/active-users/:page", h.count)
}

func (h *PresenceHandler) mark(c *fiber.Ctx) error {
	var payload dto.PresenceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, msgMissingPresence)
	}

	if err := h.service.Mark(c.UserContext(), payload); err != nil {
		if errors.Is(err, service.ErrInvalidPresence) {
			return utils.SendError(c, fiber.StatusBadRequest, msgMissingPresence)
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update presence")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to update presence")
	}
	return utils.SendOK(c, "")
}

func (h *PresenceHandler) count(c *fiber.Ctx) error {
	page, ok := paramInt(c, "page")
	if !ok {
		return utils.SendError(c, fiber.StatusNotFound, "Page not found")
	}

	count, err := h.service.Count(c.UserContext(), strconv.Itoa(page))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Int("page", page).Msg("failed to count active users")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to count active users")
	}
	return utils.SendJSON(c, fiber.StatusOK, dto.PresenceCountResponse{Page: page, ActiveUsers: count})
}

package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-quiz-api/internal/dto"
	"github.com/noah-isme/gema-quiz-api/internal/middleware"
	"github.com/noah-isme/gema-quiz-api/internal/service"
	"github.com/noah-isme/gema-quiz-api/internal/utils"
)

// TrackingHandler receives browser events from the tracking script.
type TrackingHandler struct {
	service service.TrackingService
	logger  zerolog.Logger
}

// NewTrackingHandler constructs a tracking handler.
func NewTrackingHandler(service service.TrackingService, logger zerolog.Logger) *TrackingHandler {
	return &TrackingHandler{
		service: service,
		logger:  logger.With().Str("component", "tracking_handler").Logger(),
	}
}

// Register wires the tracking routes. limiter guards the event endpoint and may be nil.
func (h *TrackingHandler) Register(router fiber.Router, limiter fiber.Handler) {
	if limiter != nil {
		router.Post("/track", limiter, h.track)
	} else {
		router.Post("/track", h.track)
	}
	router.Get("/client-ip", h.clientIP)
}

func (h *TrackingHandler) track(c *fiber.Ctx) error {
	var payload dto.TrackRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Invalid payload")
	}

	tracked, err := h.service.Track(c.UserContext(), payload, service.TrackMeta{
		IsAdmin:  middleware.IsAdmin(c),
		ClientIP: middleware.ClientIP(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSessionID):
			return utils.SendError(c, fiber.StatusBadRequest, "Session ID is required")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, validationMessage(err, "Invalid payload"))
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("session_id", payload.SessionID).Msg("failed to record event")
			return utils.SendError(c, fiber.StatusInternalServerError, "Failed to record event")
		}
	}

	if !tracked {
		return utils.SendOK(c, "Admin activity not tracked")
	}
	return utils.SendOK(c, "")
}

func (h *TrackingHandler) clientIP(c *fiber.Ctx) error {
	return utils.SendJSON(c, fiber.StatusOK, dto.ClientIPResponse{IP: middleware.ClientIP(c)})
}

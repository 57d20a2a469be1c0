package handler

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-quiz-api/internal/service"
	"github.com/noah-isme/gema-quiz-api/internal/utils"
)

// PageTitleHandler reads and replaces the quiz page titles.
type PageTitleHandler struct {
	service service.PageTitleService
	logger  zerolog.Logger
}

// NewPageTitleHandler constructs a page title handler.
func NewPageTitleHandler(service service.PageTitleService, logger zerolog.Logger) *PageTitleHandler {
	return &PageTitleHandler{
		service: service,
		logger:  logger.With().Str("component", "page_title_handler").Logger(),
	}
}

// Register wires the routes. Writes go through adminGuard.
func (h *PageTitleHandler) Register(router fiber.Router, adminGuard fiber.Handler) {
	router.Get("/page-titles", h.get)
	router.Post("/page-titles", adminGuard, h.save)
}

func (h *PageTitleHandler) get(c *fiber.Ctx) error {
	titles, err := h.service.Get(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load page titles")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to load page titles")
	}
	return utils.SendJSON(c, fiber.StatusOK, titles)
}

func (h *PageTitleHandler) save(c *fiber.Ctx) error {
	var titles map[string]string
	if err := json.Unmarshal(c.Body(), &titles); err != nil || titles == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Page titles must be an object of strings")
	}

	if _, err := h.service.Save(c.UserContext(), titles); err != nil {
		if errors.Is(err, service.ErrInvalidPageTitles) {
			return utils.SendError(c, fiber.StatusBadRequest, "Page titles must be an object of strings")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to save page titles")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to save page titles")
	}
	return utils.SendOK(c, "")
}

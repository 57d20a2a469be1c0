package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-quiz-api/internal/repository"
	"github.com/noah-isme/gema-quiz-api/internal/service"
	"github.com/noah-isme/gema-quiz-api/internal/utils"
)

const msgNoMoreQuestions = "No more questions"

// QuestionHandler serves the public quiz pages.
type QuestionHandler struct {
	service service.QuestionService
	logger  zerolog.Logger
}

// NewQuestionHandler constructs a question handler.
func NewQuestionHandler(service service.QuestionService, logger zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		service: service,
		logger:  logger.With().Str("component", "question_handler").Logger(),
	}
}

// Register wires the public question routes.
func (h *QuestionHandler) Register(router fiber.Router) {
	router.Get("/questions/count", h.count)
	router.Get("/questions/:page", h.page)
}

func (h *QuestionHandler) count(c *fiber.Ctx) error {
	pageRange, err := h.service.PageRange(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute page range")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to load questions")
	}
	return utils.SendJSON(c, fiber.StatusOK, pageRange)
}

func (h *QuestionHandler) page(c *fiber.Ctx) error {
	page, ok := paramInt(c, "page")
	if !ok {
		return utils.SendError(c, fiber.StatusNotFound, msgNoMoreQuestions)
	}

	questions, err := h.service.ListPage(c.UserContext(), page)
	if err != nil {
		if errors.Is(err, repository.ErrPageNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, msgNoMoreQuestions)
		}
		requestLogger(h.logger, c).Error().Err(err).Int("page", page).Msg("failed to load question page")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to load questions")
	}
	return utils.SendJSON(c, fiber.StatusOK, questions)
}

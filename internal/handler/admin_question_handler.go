package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-quiz-api/internal/dto"
	"github.com/noah-isme/gema-quiz-api/internal/service"
	"github.com/noah-isme/gema-quiz-api/internal/utils"
)

// AdminQuestionHandler exposes question bank administration. Routes must sit behind an admin guard.
type AdminQuestionHandler struct {
	service service.QuestionService
	logger  zerolog.Logger
}

// NewAdminQuestionHandler constructs the admin question handler.
func NewAdminQuestionHandler(service service.QuestionService, logger zerolog.Logger) *AdminQuestionHandler {
	return &AdminQuestionHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_question_handler").Logger(),
	}
}

// Register wires admin question routes.
func (h *AdminQuestionHandler) Register(router fiber.Router) {
	router.Get("/questions", h.list)
	router.Post("/question", h.create)
	router.Put("/question/:id", h.update)
	router.Delete("/question/:id", h.delete)
	router.Post("/questions/reorder", h.reorder)
	router.Post("/cleanup-whitespace", h.cleanup)
}

func (h *AdminQuestionHandler) list(c *fiber.Ctx) error {
	questions, err := h.service.ListAll(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list questions")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to load questions")
	}
	return utils.SendJSON(c, fiber.StatusOK, questions)
}

func (h *AdminQuestionHandler) create(c *fiber.Ctx) error {
	var payload dto.QuestionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Invalid question data")
	}

	question, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return h.writeError(c, err, "failed to create question")
	}
	return utils.SendJSON(c, fiber.StatusOK, dto.QuestionCreatedResponse{Success: true, Question: question})
}

func (h *AdminQuestionHandler) update(c *fiber.Ctx) error {
	id, ok := paramInt(c, "id")
	if !ok {
		return utils.SendError(c, fiber.StatusNotFound, "Question not found")
	}

	var payload dto.QuestionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Invalid question data")
	}

	if _, err := h.service.Update(c.UserContext(), id, payload); err != nil {
		return h.writeError(c, err, "failed to update question")
	}
	return utils.SendOK(c, "")
}

func (h *AdminQuestionHandler) delete(c *fiber.Ctx) error {
	id, ok := paramInt(c, "id")
	if !ok {
		return utils.SendError(c, fiber.StatusNotFound, "Question not found")
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.writeError(c, err, "failed to delete question")
	}
	return utils.SendOK(c, "")
}

func (h *AdminQuestionHandler) reorder(c *fiber.Ctx) error {
	var payload dto.ReorderRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Invalid reorder payload")
	}

	if err := h.service.Reorder(c.UserContext(), payload); err != nil {
		return h.writeError(c, err, "failed to reorder questions")
	}
	return utils.SendOK(c, "")
}

func (h *AdminQuestionHandler) cleanup(c *fiber.Ctx) error {
	cleaned, err := h.service.CleanupWhitespace(c.UserContext())
	if err != nil {
		return h.writeError(c, err, "failed to clean question whitespace")
	}
	return utils.SendJSON(c, fiber.StatusOK, dto.CleanupResponse{Success: true, Cleaned: cleaned})
}

func (h *AdminQuestionHandler) writeError(c *fiber.Ctx, err error, logMessage string) error {
	switch {
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "Question not found")
	case errors.Is(err, service.ErrCorrectAnswerMismatch):
		return utils.SendError(c, fiber.StatusBadRequest, "Correct answer must match an option")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, validationMessage(err, "Invalid question data"))
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(logMessage)
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to save questions")
	}
}

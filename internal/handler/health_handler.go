package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-quiz-api/internal/config"
	"github.com/noah-isme/gema-quiz-api/internal/service"
	"github.com/noah-isme/gema-quiz-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Service       string    `json:"service"`
	Environment   string    `json:"environment"`
	StorageDriver string    `json:"storage_driver"`
	Questions     *int      `json:"questions,omitempty"`
}

// HealthCheck reports service status and whether the question store is readable.
func HealthCheck(cfg config.Config, questions service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:        "ok",
			Timestamp:     time.Now().UTC(),
			Service:       cfg.AppName,
			Environment:   cfg.AppEnv,
			StorageDriver: cfg.StorageDriver,
		}

		if questions != nil {
			count, err := questions.Count(c.UserContext())
			if err != nil {
				payload.Status = "degraded"
				return c.Status(fiber.StatusServiceUnavailable).JSON(utils.APIResponse{
					Success: false,
					Data:    payload,
					Message: "question store unavailable",
				})
			}
			payload.Questions = &count
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}

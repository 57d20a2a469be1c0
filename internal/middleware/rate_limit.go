package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-quiz-api/internal/utils"
)

const (
	defaultRateLimit  = 10
	defaultRateWindow = time.Second
)

// RateLimit throttles a public route per client address. Admin callers are never throttled.
// name prefixes the limiter keys so that several limited routes do not share buckets.
func RateLimit(name string, max int, window time.Duration, logger zerolog.Logger) fiber.Handler {
	if max <= 0 {
		max = defaultRateLimit
	}
	if window <= 0 {
		window = defaultRateWindow
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Next:       IsAdmin,
		KeyGenerator: func(c *fiber.Ctx) string {
			return name + "|" + ClientIP(c)
		},
		LimitReached: func(c *fiber.Ctx) error {
			logger.Warn().
				Str("limiter", name).
				Str("client_ip", ClientIP(c)).
				Str("correlation_id", GetCorrelationID(c)).
				Msg("rate limit reached")
			return utils.SendError(c, fiber.StatusTooManyRequests, "Too many requests")
		},
	})
}

package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-quiz-api/internal/utils"
)

const roleAdmin = "admin"

// RequireAdmin rejects callers without the admin role before the handler runs, so a rejected
// request never reaches a store.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsAdmin(c) {
			return unauthorized(c)
		}
		return c.Next()
	}
}

// RequireLogin only checks that somebody is logged in.
func RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsLoggedIn(c) {
			return unauthorized(c)
		}
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return utils.SendError(c, fiber.StatusUnauthorized, "Unauthorized")
}

package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// Keys stored in the server-side session.
const (
	SessionKeyLoggedIn  = "logged_in"
	SessionKeyRole      = "role"
	SessionKeyUsername  = "username"
	SessionKeyQuizState = "quiz_state"
)

const (
	localLoggedIn = "logged_in"
	localRole     = "user_role"
	localUsername = "username"
)

// SessionCookieName is the cookie carrying the session id.
const SessionCookieName = "quiz_session"

// NewSessionStore creates the in-memory session store behind the quiz_session cookie.
func NewSessionStore(ttl time.Duration, secure bool) *session.Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return session.New(session.Config{
		Expiration:     ttl,
		KeyLookup:      "cookie:" + SessionCookieName,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: "Lax",
	})
}

// SessionAuth resolves who is calling from the session cookie or a bearer token. It never
// rejects a request; guards such as RequireAdmin do that.
func SessionAuth(store *session.Store, jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store != nil {
			if sess, err := store.Get(c); err == nil {
				if loggedIn, _ := sess.Get(SessionKeyLoggedIn).(bool); loggedIn {
					c.Locals(localLoggedIn, true)
					if role, ok := sess.Get(SessionKeyRole).(string); ok {
						c.Locals(localRole, role)
					}
					if username, ok := sess.Get(SessionKeyUsername).(string); ok {
						c.Locals(localUsername, username)
					}
				}
			}
		}

		if !IsLoggedIn(c) {
			if subject, role, ok := bearerIdentity(c, jwtSecret); ok {
				c.Locals(localLoggedIn, true)
				c.Locals(localRole, role)
				c.Locals(localUsername, subject)
			}
		}

		return c.Next()
	}
}

// IsLoggedIn reports whether SessionAuth found a session or a valid token.
func IsLoggedIn(c *fiber.Ctx) bool {
	loggedIn, _ := c.Locals(localLoggedIn).(bool)
	return loggedIn
}

// IsAdmin reports whether the caller holds the admin role.
func IsAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals(localRole).(string)
	return IsLoggedIn(c) && normalizeRole(role) == roleAdmin
}

// Username returns the resolved caller name, if any.
func Username(c *fiber.Ctx) string {
	username, _ := c.Locals(localUsername).(string)
	return username
}

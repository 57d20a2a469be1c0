package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-quiz-api/internal/dto"
	"github.com/noah-isme/gema-quiz-api/internal/handler"
	"github.com/noah-isme/gema-quiz-api/internal/middleware"
	"github.com/noah-isme/gema-quiz-api/internal/service"
)

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	hash, err := service.HashPassword("correct-horse")
	require.NoError(t, err)
	auth := service.NewAuthService(service.AuthConfig{
		Username:     "admin",
		PasswordHash: hash,
		JWTSecret:    "handler-secret",
		TokenTTL:     time.Hour,
	}, validator.New(), zerolog.Nop())

	store := middleware.NewSessionStore(time.Hour, false)
	app := fiber.New()
	api := app.Group("/api", middleware.SessionAuth(store, "handler-secret"))
	handler.NewAuthHandler(auth, store, zerolog.Nop()).Register(api)
	api.Get("/whoami", middleware.RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString(middleware.Username(c))
	})
	return app
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	t.Fatalf("session cookie not set")
	return nil
}

func TestAuthHandler_LoginSessionAndQuizState(t *testing.T) {
	app := newAuthApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "admin", Password: "correct-horse"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	cookie := sessionCookie(t, resp)

	var login dto.LoginResponse
	decodeBody(t, resp, &login)
	require.True(t, login.Success)
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = jsonRequest(t, http.MethodPost, "/api/session", map[string]interface{}{"page": 3, "scroll_position": 120})
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var state map[string]interface{}
	decodeBody(t, resp, &state)
	require.Equal(t, float64(3), state["page"])
	require.Equal(t, float64(120), state["scroll_position"])

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHandler_BearerToken(t *testing.T) {
	app := newAuthApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "admin", Password: "correct-horse"}))
	require.NoError(t, err)
	var login dto.LoginResponse
	decodeBody(t, resp, &login)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthHandler_RejectsBadLogin(t *testing.T) {
	app := newAuthApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "admin", Password: "nope"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/session", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

package handler_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-quiz-api/internal/handler"
	"github.com/noah-isme/gema-quiz-api/internal/middleware"
	"github.com/noah-isme/gema-quiz-api/internal/repository"
	"github.com/noah-isme/gema-quiz-api/internal/service"
)

func newPageTitleApp(t *testing.T, admin bool) *fiber.App {
	t.Helper()
	repo := repository.NewFilePageTitleRepository(filepath.Join(t.TempDir(), "page-title.json"), zerolog.Nop())
	svc := service.NewPageTitleService(repo, zerolog.Nop())

	app := fiber.New()
	api := app.Group("/api")
	if admin {
		api = app.Group("/api", asAdmin)
	}
	handler.NewPageTitleHandler(svc, zerolog.Nop()).Register(api, middleware.RequireAdmin())
	return app
}

func TestPageTitleHandler_SaveAndGet(t *testing.T) {
	app := newPageTitleApp(t, true)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/page-titles", map[string]string{"1": "<em>Intro</em>"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/page-titles", nil))
	require.NoError(t, err)
	var titles map[string]string
	decodeBody(t, resp, &titles)
	require.Equal(t, map[string]string{"1": "Intro"}, titles)

	req := httptest.NewRequest(http.MethodPost, "/api/page-titles", strings.NewReader(`["not","an","object"]`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPageTitleHandler_SaveRequiresAdmin(t *testing.T) {
	app := newPageTitleApp(t, false)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/page-titles", map[string]string{"1": "Intro"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/page-titles", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

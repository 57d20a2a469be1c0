package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-quiz-api/internal/dto"
	"github.com/noah-isme/gema-quiz-api/internal/models"
	"github.com/noah-isme/gema-quiz-api/internal/repository"
	"github.com/noah-isme/gema-quiz-api/internal/service"
)

var (
	errPageNotFound    = repository.ErrPageNotFound
	errSessionNotFound = repository.ErrSessionNotFound
)

type mockQuestionService struct {
	pages       map[int][]models.Question
	pageRange   models.PageRange
	all         []models.Question
	created     *dto.QuestionRequest
	createResp  models.Question
	updatedID   int
	deletedID   int
	reorder     *dto.ReorderRequest
	cleaned     bool
	err         error
	createCalls int
}

func (m *mockQuestionService) ListPage(_ context.Context, page int) ([]models.Question, error) {
	if m.err != nil {
		return nil, m.err
	}
	questions, ok := m.pages[page]
	if !ok {
		return nil, errPageNotFound
	}
	return questions, nil
}

func (m *mockQuestionService) PageRange(context.Context) (models.PageRange, error) {
	return m.pageRange, m.err
}

func (m *mockQuestionService) ListAll(context.Context) ([]models.Question, error) {
	return m.all, m.err
}

func (m *mockQuestionService) Count(context.Context) (int, error) {
	return len(m.all), m.err
}

func (m *mockQuestionService) Create(_ context.Context, req dto.QuestionRequest) (models.Question, error) {
	m.createCalls++
	m.created = &req
	if m.err != nil {
		return models.Question{}, m.err
	}
	return m.createResp, nil
}

func (m *mockQuestionService) Update(_ context.Context, id int, req dto.QuestionRequest) (models.Question, error) {
	m.updatedID = id
	if m.err != nil {
		return models.Question{}, m.err
	}
	return models.Question{ID: id}, nil
}

func (m *mockQuestionService) Delete(_ context.Context, id int) error {
	m.deletedID = id
	return m.err
}

func (m *mockQuestionService) Reorder(_ context.Context, req dto.ReorderRequest) error {
	m.reorder = &req
	return m.err
}

func (m *mockQuestionService) CleanupWhitespace(context.Context) (bool, error) {
	return m.cleaned, m.err
}

func (m *mockQuestionService) SeedSamples(context.Context) (bool, error) {
	return false, m.err
}

type mockAnalyticsService struct {
	summaries []dto.SessionSummary
	events    map[string][]models.Event
	progress  []dto.QuizProgress
	deleted   string
	err       error
}

func (m *mockAnalyticsService) ListSessions(context.Context) ([]dto.SessionSummary, error) {
	return m.summaries, m.err
}

func (m *mockAnalyticsService) GetSession(_ context.Context, id string) ([]models.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	events, ok := m.events[id]
	if !ok {
		return nil, errSessionNotFound
	}
	return events, nil
}

func (m *mockAnalyticsService) DeleteSession(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.events[id]; !ok {
		return errSessionNotFound
	}
	m.deleted = id
	return nil
}

func (m *mockAnalyticsService) QuizProgress(context.Context) ([]dto.QuizProgress, error) {
	return m.progress, m.err
}

type mockTrackingService struct {
	last  dto.TrackRequest
	meta  service.TrackMeta
	calls int
	err   error
}

func (m *mockTrackingService) Track(_ context.Context, req dto.TrackRequest, meta service.TrackMeta) (bool, error) {
	m.calls++
	m.last = req
	m.meta = meta
	if m.err != nil {
		return false, m.err
	}
	return !meta.IsAdmin, nil
}

type mockPresenceService struct {
	last   dto.PresenceRequest
	counts map[string]int
	err    error
}

func (m *mockPresenceService) Mark(_ context.Context, req dto.PresenceRequest) error {
	m.last = req
	if m.err != nil {
		return m.err
	}
	if _, ok := service.PageKey(req.Page); !ok || req.SessionID == "" {
		return service.ErrInvalidPresence
	}
	return nil
}

func (m *mockPresenceService) Count(_ context.Context, page string) (int, error) {
	return m.counts[page], m.err
}

func jsonRequest(t *testing.T, method, path string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func asAdmin(c *fiber.Ctx) error {
	c.Locals("logged_in", true)
	c.Locals("user_role", "admin")
	return c.Next()
}

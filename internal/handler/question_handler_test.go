package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-quiz-api/internal/dto"
	"github.com/noah-isme/gema-quiz-api/internal/handler"
	"github.com/noah-isme/gema-quiz-api/internal/models"
	"github.com/noah-isme/gema-quiz-api/internal/repository"
	"github.com/noah-isme/gema-quiz-api/internal/service"
)

func newQuestionApp(svc service.QuestionService) *fiber.App {
	app := fiber.New()
	handler.NewQuestionHandler(svc, zerolog.Nop()).Register(app.Group("/api"))
	handler.NewAdminQuestionHandler(svc, zerolog.Nop()).Register(app.Group("/api/admin", asAdmin))
	return app
}

func TestQuestionHandler_Page(t *testing.T) {
	svc := &mockQuestionService{pages: map[int][]models.Question{
		1: {{ID: 3, Question: "What is CSS?", Page: 1}},
	}}
	app := newQuestionApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/questions/1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var questions []models.Question
	decodeBody(t, resp, &questions)
	require.Len(t, questions, 1)
	require.Equal(t, 3, questions[0].ID)
}

func TestQuestionHandler_PageMissing(t *testing.T) {
	app := newQuestionApp(&mockQuestionService{pages: map[int][]models.Question{}})

	for _, path := range []string{"/api/questions/9", "/api/questions/abc"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

		var body map[string]interface{}
		decodeBody(t, resp, &body)
		require.Equal(t, "No more questions", body["error"])
	}
}

func TestQuestionHandler_Count(t *testing.T) {
	svc := &mockQuestionService{pageRange: models.PageRange{TotalPages: 2, StartPage: 0, EndPage: 4}}
	app := newQuestionApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/questions/count", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]int
	decodeBody(t, resp, &body)
	require.Equal(t, map[string]int{"total_pages": 2, "start_page": 0, "end_page": 4}, body)
}

func TestAdminQuestionHandler_Create(t *testing.T) {
	svc := &mockQuestionService{createResp: models.Question{ID: 7, Question: "&lt;b&gt;"}}
	app := newQuestionApp(svc)

	req := jsonRequest(t, http.MethodPost, "/api/admin/question", dto.QuestionRequest{
		Question:      "<b>",
		Options:       []dto.QuestionOptionRequest{{ID: "A", Text: "yes"}},
		CorrectAnswer: "A",
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.QuestionCreatedResponse
	decodeBody(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, 7, body.Question.ID)
	require.Equal(t, "<b>", svc.created.Question)
}

func TestAdminQuestionHandler_CreateValidationError(t *testing.T) {
	validationErr := validator.New().Struct(dto.QuestionRequest{})
	require.Error(t, validationErr)

	svc := &mockQuestionService{err: validationErr}
	app := newQuestionApp(svc)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/admin/question", map[string]string{}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	svc.err = service.ErrCorrectAnswerMismatch
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/admin/question", map[string]string{}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminQuestionHandler_UpdateAndDeleteNotFound(t *testing.T) {
	svc := &mockQuestionService{err: service.ErrQuestionNotFound}
	app := newQuestionApp(svc)

	resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/admin/question/5", dto.QuestionRequest{}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.Equal(t, 5, svc.updatedID)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/question/6", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.Equal(t, 6, svc.deletedID)
}

func TestAdminQuestionHandler_Reorder(t *testing.T) {
	svc := &mockQuestionService{}
	app := newQuestionApp(svc)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/admin/questions/reorder", map[string]interface{}{
		"questions": []map[string]int{{"id": 2, "page": 1}, {"id": 1, "page": 0}},
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, svc.reorder)
	require.Len(t, svc.reorder.Questions, 2)
	require.Equal(t, 2, *svc.reorder.Questions[0].ID)
}

func TestAdminQuestionHandler_StorageFailure(t *testing.T) {
	svc := &mockQuestionService{err: errors.New("disk full")}
	app := newQuestionApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/admin/question/1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestAdminQuestionHandler_Cleanup(t *testing.T) {
	app := newQuestionApp(&mockQuestionService{cleaned: true})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/admin/cleanup-whitespace", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.CleanupResponse
	decodeBody(t, resp, &body)
	require.True(t, body.Cleaned)
}

// The real service escapes markup before it is stored and echoed back.
func TestAdminQuestionHandler_CreateEscapesMarkup(t *testing.T) {
	repo := repository.NewFileQuestionRepository(t.TempDir(), zerolog.Nop())
	svc := service.NewQuestionService(repo, validator.New(), zerolog.Nop())
	app := newQuestionApp(svc)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/admin/question", dto.QuestionRequest{
		Question:      "<script>alert('x')</script>",
		Options:       []dto.QuestionOptionRequest{{ID: "A", Text: "<i>one</i>"}, {ID: "B", Text: "two"}},
		CorrectAnswer: "A",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.QuestionCreatedResponse
	decodeBody(t, resp, &body)
	require.Equal(t, "&lt;script&gt;alert(&#x27;x&#x27;)&lt;/script&gt;", body.Question.Question)
	require.Equal(t, "&lt;i&gt;one&lt;/i&gt;", body.Question.Options[0].Text)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/questions/0", nil))
	require.NoError(t, err)
	var stored []models.Question
	decodeBody(t, resp, &stored)
	require.Equal(t, body.Question.Question, stored[0].Question)
}

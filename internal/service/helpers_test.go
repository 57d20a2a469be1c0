package service

import (
	"io"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-quiz-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func intPtr(v int) *int {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}

func newFileQuestionService(t *testing.T) (QuestionService, repository.QuestionRepository) {
	t.Helper()
	repo := repository.NewFileQuestionRepository(t.TempDir(), testLogger())
	return NewQuestionService(repo, validator.New(), testLogger()), repo
}

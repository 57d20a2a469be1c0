package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-quiz-api/internal/models"
)

func TestFileQuestionRepositoryMissingDirectoryIsEmpty(t *testing.T) {
	repo := NewFileQuestionRepository(filepath.Join(t.TempDir(), "absent"), zerolog.Nop())

	questions, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, questions)

	pages, err := repo.PageRange(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.PageRange{}, pages)

	_, err = repo.ListPage(context.Background(), 0)
	require.ErrorIs(t, err, ErrPageNotFound)
}

func TestFileQuestionRepositoryReplaceAllGroupsByPage(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileQuestionRepository(dir, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, []models.Question{
		{ID: 1, Question: "a", Page: 2},
		{ID: 2, Question: "b", Page: 0},
		{ID: 3, Question: "c", Page: 2},
	}))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []int{2, 1, 3}, questionIDs(all), "pages are concatenated in ascending order")

	page, err := repo.ListPage(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, questionIDs(page))

	pages, err := repo.PageRange(ctx)
	require.NoError(t, err)
	require.Equal(t, models.PageRange{TotalPages: 2, StartPage: 0, EndPage: 2}, pages)

	require.NoError(t, repo.ReplaceAll(ctx, []models.Question{{ID: 1, Question: "only", Page: 5}}))
	_, err = os.Stat(filepath.Join(dir, "questions_2.json"))
	require.True(t, os.IsNotExist(err), "stale page files are removed on rewrite")

	pages, err = repo.PageRange(ctx)
	require.NoError(t, err)
	require.Equal(t, models.PageRange{TotalPages: 1, StartPage: 5, EndPage: 5}, pages)
}

func TestFileQuestionRepositorySkipsMalformedPages(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileQuestionRepository(dir, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, []models.Question{{ID: 1, Question: "ok", Page: 0}}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "questions_1.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "questions_x.json"), []byte("[]"), 0o644))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []int{1}, questionIDs(all))

	_, err = repo.ListPage(ctx, 1)
	require.ErrorIs(t, err, ErrPageNotFound)
}

func TestFileQuestionRepositoryKeepsMarkupUnescapedOnDisk(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileQuestionRepository(dir, zerolog.Nop())

	require.NoError(t, repo.ReplaceAll(context.Background(), []models.Question{{ID: 1, Question: "a &lt; b", Page: 0}}))

	raw, err := os.ReadFile(filepath.Join(dir, "questions_0.json"))
	require.NoError(t, err)
	require.Contains(t, string(raw), `"question": "a &lt; b"`)
}

func questionIDs(questions []models.Question) []int {
	ids := make([]int, 0, len(questions))
	for _, question := range questions {
		ids = append(ids, question.ID)
	}
	return ids
}

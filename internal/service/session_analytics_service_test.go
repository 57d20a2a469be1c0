package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-quiz-api/internal/models"
	"github.com/noah-isme/gema-quiz-api/internal/repository"
)

func TestSessionAnalyticsServiceSkipsCorruptAndEmptyLogs(t *testing.T) {
	dir := t.TempDir()
	events := repository.NewFileEventLogRepository(dir, testLogger())
	questions := repository.NewFileQuestionRepository(t.TempDir(), testLogger())
	ctx := context.Background()

	require.NoError(t, questions.ReplaceAll(ctx, []models.Question{{ID: 1}, {ID: 2}}))
	require.NoError(t, events.Append(ctx, "alpha", pageView("/quiz/page/0", float64(0))))
	require.NoError(t, events.Append(ctx, "alpha", answer(float64(1), true)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.json"), []byte("[]"), 0o644))

	svc := NewSessionAnalyticsService(events, questions, testLogger()).(*sessionAnalyticsService)
	svc.now = func() time.Time { return time.UnixMilli(120_000) }

	summaries, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, "alpha", summaries[0].ID)
	require.InDelta(t, 2.0, summaries[0].PageVisits["0"], 1e-9)

	progress, err := svc.QuizProgress(ctx)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	require.Equal(t, 1, progress[0].Answered)
	require.Equal(t, 2, progress[0].Total)
	require.Equal(t, 50, progress[0].ProgressPercentage)

	_, err = svc.GetSession(ctx, "broken")
	require.ErrorIs(t, err, repository.ErrSessionCorrupt)
}

func TestSessionAnalyticsServiceGetAndDelete(t *testing.T) {
	events := repository.NewFileEventLogRepository(t.TempDir(), testLogger())
	questions := repository.NewFileQuestionRepository(t.TempDir(), testLogger())
	svc := NewSessionAnalyticsService(events, questions, testLogger())
	ctx := context.Background()

	require.NoError(t, events.Append(ctx, "beta", pageView("/", float64(5))))

	loaded, err := svc.GetSession(ctx, "beta")
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	require.NoError(t, svc.DeleteSession(ctx, "beta"))
	_, err = svc.GetSession(ctx, "beta")
	require.ErrorIs(t, err, repository.ErrSessionNotFound)
	require.ErrorIs(t, svc.DeleteSession(ctx, "beta"), repository.ErrSessionNotFound)
	require.ErrorIs(t, svc.DeleteSession(ctx, "../etc/passwd"), repository.ErrSessionNotFound)
}

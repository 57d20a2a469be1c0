package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-quiz-api/internal/dto"
	"github.com/noah-isme/gema-quiz-api/internal/repository"
)

func TestPresenceServiceMarkAndCount(t *testing.T) {
	svc := NewPresenceService(repository.NewMemoryPresenceStore(time.Minute), testLogger())
	ctx := context.Background()

	require.NoError(t, svc.Mark(ctx, dto.PresenceRequest{SessionID: "a", Page: float64(1)}))
	require.NoError(t, svc.Mark(ctx, dto.PresenceRequest{SessionID: "b", Page: "1", IsActive: boolPtr(true)}))

	count, err := svc.Count(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	require.NoError(t, svc.Mark(ctx, dto.PresenceRequest{SessionID: "a", Page: float64(1), IsActive: boolPtr(false)}))
	count, err = svc.Count(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestPresenceServiceRequiresSessionAndPage(t *testing.T) {
	svc := NewPresenceService(repository.NewMemoryPresenceStore(time.Minute), testLogger())

	require.ErrorIs(t, svc.Mark(context.Background(), dto.PresenceRequest{Page: float64(1)}), ErrInvalidPresence)
	require.ErrorIs(t, svc.Mark(context.Background(), dto.PresenceRequest{SessionID: "a"}), ErrInvalidPresence)
}

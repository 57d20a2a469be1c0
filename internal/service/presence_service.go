package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-quiz-api/internal/dto"
	"github.com/noah-isme/gema-quiz-api/internal/observability"
	"github.com/noah-isme/gema-quiz-api/internal/repository"
)

// ErrInvalidPresence indicates a presence update without session id or page.
var ErrInvalidPresence = errors.New("missing sessionId or page")

// PresenceService tracks which sessions are currently looking at which page.
type PresenceService interface {
	Mark(ctx context.Context, req dto.PresenceRequest) error
	Count(ctx context.Context, page string) (int, error)
}

type presenceService struct {
	store  repository.PresenceStore
	logger zerolog.Logger
}

// NewPresenceService constructs the presence service on top of store.
func NewPresenceService(store repository.PresenceStore, logger zerolog.Logger) PresenceService {
	return &presenceService{
		store:  store,
		logger: logger.With().Str("component", "presence_service").Logger(),
	}
}

// Mark registers or removes the session on the page. A missing isActive counts as active.
func (s *presenceService) Mark(ctx context.Context, req dto.PresenceRequest) error {
	page, ok := PageKey(req.Page)
	if req.SessionID == "" || !ok || len(req.SessionID) > 128 {
		return ErrInvalidPresence
	}

	active := req.IsActive == nil || *req.IsActive
	if err := s.store.Mark(ctx, req.SessionID, page, active); err != nil {
		s.logger.Error().Err(err).Str("page", page).Msg("failed to update presence")
		return err
	}

	state := "inactive"
	if active {
		state = "active"
	}
	observability.PresenceMarks().WithLabelValues(state).Inc()
	return nil
}

func (s *presenceService) Count(ctx context.Context, page string) (int, error) {
	return s.store.Count(ctx, page)
}

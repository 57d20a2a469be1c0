package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/gema-quiz-api/internal/dto"
	"github.com/noah-isme/gema-quiz-api/internal/models"
	"github.com/noah-isme/gema-quiz-api/internal/repository"
)

// SessionAnalyticsService builds the admin dashboards from the stored event logs.
type SessionAnalyticsService interface {
	ListSessions(ctx context.Context) ([]dto.SessionSummary, error)
	GetSession(ctx context.Context, sessionID string) ([]models.Event, error)
	DeleteSession(ctx context.Context, sessionID string) error
	QuizProgress(ctx context.Context) ([]dto.QuizProgress, error)
}

type sessionAnalyticsService struct {
	events    repository.EventLogRepository
	questions repository.QuestionRepository
	logger    zerolog.Logger
	now       func() time.Time
	tracer    trace.Tracer
}

// NewSessionAnalyticsService constructs the dashboard aggregation service.
func NewSessionAnalyticsService(events repository.EventLogRepository, questions repository.QuestionRepository, logger zerolog.Logger) SessionAnalyticsService {
	return &sessionAnalyticsService{
		events:    events,
		questions: questions,
		logger:    logger.With().Str("component", "session_analytics_service").Logger(),
		now:       time.Now,
		tracer:    otel.Tracer("github.com/noah-isme/gema-quiz-api/internal/service/analytics"),
	}
}

func (s *sessionAnalyticsService) ListSessions(ctx context.Context) ([]dto.SessionSummary, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.list_sessions")
	defer span.End()

	now := s.now()
	summaries := make([]dto.SessionSummary, 0)
	err := s.eachSession(ctx, func(sessionID string, events []models.Event) {
		summaries = append(summaries, SummarizeSession(sessionID, events, now))
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("analytics.sessions", len(summaries)))
	return summaries, nil
}

func (s *sessionAnalyticsService) GetSession(ctx context.Context, sessionID string) ([]models.Event, error) {
	events, err := s.events.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionCorrupt) {
			s.logger.Error().Err(err).Str("session_id", sessionID).Msg("session log unreadable")
		}
		return nil, err
	}
	return events, nil
}

func (s *sessionAnalyticsService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.events.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info().Str("session_id", sessionID).Msg("session deleted")
	return nil
}

func (s *sessionAnalyticsService) QuizProgress(ctx context.Context) ([]dto.QuizProgress, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.quiz_progress")
	defer span.End()

	questions, err := s.questions.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	total := len(questions)

	progress := make([]dto.QuizProgress, 0)
	err = s.eachSession(ctx, func(sessionID string, events []models.Event) {
		progress = append(progress, SummarizeQuizProgress(sessionID, events, total))
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return progress, nil
}

// eachSession visits every non-empty session log in id order. Unreadable logs are logged and
// skipped.
func (s *sessionAnalyticsService) eachSession(ctx context.Context, visit func(string, []models.Event)) error {
	ids, err := s.events.ListSessionIDs(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		events, err := s.events.Load(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				continue
			}
			s.logger.Warn().Err(err).Str("session_id", id).Msg("skipping unreadable session log")
			continue
		}
		if len(events) == 0 {
			continue
		}
		visit(id, events)
	}
	return nil
}

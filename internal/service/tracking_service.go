package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/gema-quiz-api/internal/dto"
	"github.com/noah-isme/gema-quiz-api/internal/models"
	"github.com/noah-isme/gema-quiz-api/internal/observability"
	"github.com/noah-isme/gema-quiz-api/internal/repository"
)

// ErrInvalidSessionID indicates a missing or unusable session id.
var ErrInvalidSessionID = errors.New("invalid session id")

// knownEvents bounds the metric label set; anything else is counted as "other".
var knownEvents = map[string]struct{}{
	models.EventPageView:           {},
	models.EventQuizPageNavigation: {},
	models.EventQuizAnswer:         {},
	"timeSpent":                    {},
	"pageHidden":                   {},
	"pageVisible":                  {},
	"pageUnload":                   {},
	"questionView":                 {},
	"quizSearch":                   {},
}

// TrackMeta carries request facts the tracking payload cannot be trusted with.
type TrackMeta struct {
	IsAdmin  bool
	ClientIP string
}

// TrackingService appends browser events to the per-session logs.
type TrackingService interface {
	Track(ctx context.Context, req dto.TrackRequest, meta TrackMeta) (bool, error)
}

type trackingService struct {
	repo      repository.EventLogRepository
	publisher EventPublisher
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
	tracer    trace.Tracer
}

// NewTrackingService constructs the tracking service. publisher may be nil.
func NewTrackingService(repo repository.EventLogRepository, publisher EventPublisher, validate *validator.Validate, logger zerolog.Logger) TrackingService {
	return &trackingService{
		repo:      repo,
		publisher: publisher,
		validator: validate,
		logger:    logger.With().Str("component", "tracking_service").Logger(),
		now:       time.Now,
		tracer:    otel.Tracer("github.com/noah-isme/gema-quiz-api/internal/service/tracking"),
	}
}

// Track stores the event and reports whether it was recorded. Admin activity is ignored.
func (s *trackingService) Track(ctx context.Context, req dto.TrackRequest, meta TrackMeta) (bool, error) {
	if meta.IsAdmin {
		return false, nil
	}

	ctx, span := s.tracer.Start(ctx, "tracking.track")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		if req.SessionID == "" {
			return false, ErrInvalidSessionID
		}
		span.SetStatus(codes.Error, "validation failed")
		return false, err
	}
	if !models.ValidSessionID(req.SessionID) {
		span.SetStatus(codes.Error, "invalid session id")
		return false, ErrInvalidSessionID
	}

	event := req.ToEvent()
	if event.IP == "" {
		event.IP = meta.ClientIP
	}
	if event.Timestamp == nil {
		event.Timestamp = s.now().UTC().Format(time.RFC3339Nano)
	}
	span.SetAttributes(attribute.String("tracking.event", event.EventName))

	if err := s.repo.Append(ctx, event.SessionID, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return false, err
	}

	observability.TrackedEvents().WithLabelValues(eventLabel(event.EventName)).Inc()

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn().Err(err).Str("session_id", event.SessionID).Msg("failed to publish tracking event")
		}
	}
	return true, nil
}

func eventLabel(name string) string {
	if _, ok := knownEvents[name]; ok {
		return name
	}
	return "other"
}

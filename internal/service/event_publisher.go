package service

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-quiz-api/internal/models"
)

// EventPublisher forwards accepted tracking events to an external consumer.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// NATSEventPublisher publishes tracking events as JSON on a NATS subject.
type NATSEventPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSEventPublisher constructs a publisher bound to subject.
func NewNATSEventPublisher(conn *nats.Conn, subject string) *NATSEventPublisher {
	return &NATSEventPublisher{conn: conn, subject: subject}
}

// Publish sends the event. A missing connection is a no-op.
func (p *NATSEventPublisher) Publish(ctx context.Context, event models.Event) error {
	if p == nil || p.conn == nil || p.subject == "" {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.subject, payload)
}

// LogEventPublisher is used when no broker is configured; it only logs at debug level.
type LogEventPublisher struct {
	logger zerolog.Logger
}

// NewLogEventPublisher constructs a logging publisher.
func NewLogEventPublisher(logger zerolog.Logger) *LogEventPublisher {
	return &LogEventPublisher{logger: logger.With().Str("component", "event_publisher").Logger()}
}

// Publish logs the event name and session.
func (l *LogEventPublisher) Publish(ctx context.Context, event models.Event) error {
	l.logger.Debug().Str("session_id", event.SessionID).Str("event", event.EventName).Msg("tracking event recorded")
	return nil
}

package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-quiz-api/internal/models"
)

type eventRecord struct {
	ID        uint                             `gorm:"primaryKey"`
	SessionID string                           `gorm:"size:128;index;not null"`
	EventName string                           `gorm:"size:64;index"`
	Payload   datatypes.JSONType[models.Event] `gorm:"type:json"`
	CreatedAt time.Time
}

func (eventRecord) TableName() string { return "quiz_events" }

type gormEventLogRepository struct {
	db *gorm.DB
}

// NewGormEventLogRepository stores every event as a row keyed by session id.
func NewGormEventLogRepository(db *gorm.DB) EventLogRepository {
	return &gormEventLogRepository{db: db}
}

func (r *gormEventLogRepository) Append(ctx context.Context, sessionID string, event models.Event) error {
	if !models.ValidSessionID(sessionID) {
		return ErrInvalidSessionID
	}
	record := eventRecord{
		SessionID: sessionID,
		EventName: event.EventName,
		Payload:   datatypes.NewJSONType(event),
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *gormEventLogRepository) Load(ctx context.Context, sessionID string) ([]models.Event, error) {
	var records []eventRecord
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrSessionNotFound
	}

	events := make([]models.Event, 0, len(records))
	for _, record := range records {
		events = append(events, record.Payload.Data())
	}
	return events, nil
}

func (r *gormEventLogRepository) ListSessionIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&eventRecord{}).
		Distinct("session_id").
		Order("session_id ASC").
		Pluck("session_id", &ids).Error
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (r *gormEventLogRepository) Delete(ctx context.Context, sessionID string) error {
	result := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&eventRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Migrate creates the tables used by the gorm backed repositories.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&questionRecord{}, &eventRecord{})
}

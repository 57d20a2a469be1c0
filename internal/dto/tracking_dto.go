package dto

import (
	"encoding/json"

	"github.com/noah-isme/gema-quiz-api/internal/models"
)

// TrackRequest is one event posted by the tracking script.
type TrackRequest struct {
	SessionID  string                 `json:"sessionId" validate:"required,max=128"`
	EventName  string                 `json:"eventName" validate:"max=64"`
	EventData  map[string]interface{} `json:"eventData"`
	DeviceInfo models.DeviceInfo      `json:"deviceInfo"`
	IP         string                 `json:"ip" validate:"max=256"`
	Timestamp  interface{}            `json:"timestamp"`

	// Extra carries top-level members outside the fields above; they are stored as sent.
	Extra models.Extra `json:"-"`
}

// UnmarshalJSON decodes the body through models.Event so unknown members are kept.
func (r *TrackRequest) UnmarshalJSON(data []byte) error {
	var event models.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}
	*r = TrackRequest{
		SessionID:  event.SessionID,
		EventName:  event.EventName,
		EventData:  event.EventData,
		DeviceInfo: event.DeviceInfo,
		IP:         event.IP,
		Timestamp:  event.Timestamp,
		Extra:      event.Extra,
	}
	return nil
}

// ToEvent converts the request into the stored event shape.
func (r TrackRequest) ToEvent() models.Event {
	return models.Event{
		SessionID:  r.SessionID,
		EventName:  r.EventName,
		EventData:  r.EventData,
		DeviceInfo: r.DeviceInfo,
		IP:         r.IP,
		Timestamp:  r.Timestamp,
		Extra:      r.Extra,
	}
}

// ClientIPResponse echoes the caller address as seen by the server.
type ClientIPResponse struct {
	IP string `json:"ip"`
}

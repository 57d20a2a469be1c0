package models

// Tracked event names with special meaning for analytics.
const (
	EventPageView           = "pageView"
	EventQuizPageNavigation = "quizPageNavigation"
	EventQuizAnswer         = "quizAnswer"
)

// DeviceInfo describes the client device reported by the tracking script.
type DeviceInfo struct {
	OS    string `json:"os,omitempty"`
	Model string `json:"model,omitempty"`
	IP    string `json:"ip,omitempty"`

	// Extra keeps device fields the script reports beyond the ones above.
	Extra Extra `json:"-"`
}

type deviceInfoFields DeviceInfo

var deviceInfoKeys = knownKeys("os", "model", "ip")

// UnmarshalJSON decodes the typed fields and keeps any other member in Extra.
func (d *DeviceInfo) UnmarshalJSON(data []byte) error {
	var fields deviceInfoFields
	extra, err := decodeWithExtra(data, &fields, deviceInfoKeys)
	if err != nil {
		return err
	}
	*d = DeviceInfo(fields)
	d.Extra = extra
	return nil
}

// MarshalJSON writes the typed fields followed by Extra.
func (d DeviceInfo) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(deviceInfoFields(d), d.Extra)
}

// Event is one tracked browser event. EventData keeps whatever the client sent; its schema
// depends on EventName.
type Event struct {
	SessionID  string                 `json:"sessionId"`
	EventName  string                 `json:"eventName"`
	EventData  map[string]interface{} `json:"eventData"`
	DeviceInfo DeviceInfo             `json:"deviceInfo"`
	IP         string                 `json:"ip,omitempty"`
	Timestamp  interface{}            `json:"timestamp,omitempty"`

	// Extra keeps top-level members the client sent that have no field above.
	Extra Extra `json:"-"`
}

type eventFields Event

var eventKeys = knownKeys("sessionId", "eventName", "eventData", "deviceInfo", "ip", "timestamp")

// UnmarshalJSON decodes the typed fields and keeps any other member in Extra.
func (e *Event) UnmarshalJSON(data []byte) error {
	var fields eventFields
	extra, err := decodeWithExtra(data, &fields, eventKeys)
	if err != nil {
		return err
	}
	*e = Event(fields)
	e.Extra = extra
	return nil
}

// MarshalJSON writes the typed fields followed by Extra.
func (e Event) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(eventFields(e), e.Extra)
}

// Data returns the value stored under key in the event payload.
func (e Event) Data(key string) (interface{}, bool) {
	if e.EventData == nil {
		return nil, false
	}
	value, ok := e.EventData[key]
	return value, ok
}

// DataString returns a string value of the event payload, or "" when absent or not a string.
func (e Event) DataString(key string) string {
	value, ok := e.Data(key)
	if !ok {
		return ""
	}
	str, _ := value.(string)
	return str
}

// RawTimestamp returns the client supplied timestamp, preferring eventData.timestamp.
func (e Event) RawTimestamp() interface{} {
	if value, ok := e.Data("timestamp"); ok && value != nil {
		return value
	}
	return e.Timestamp
}

// ValidSessionID reports whether id is usable as a session log key. Session ids are generated
// by the browser and end up as file names, so only a conservative alphabet is accepted.
func ValidSessionID(id string) bool {
	if id == "" || len(id) > 128 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

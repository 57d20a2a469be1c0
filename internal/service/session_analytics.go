package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/gema-quiz-api/internal/dto"
	"github.com/noah-isme/gema-quiz-api/internal/models"
)

const (
	unknownValue   = "Unknown"
	quizPagePrefix = "/quiz/page/"
	msPerMinute    = 60000.0
)

// naive layouts are interpreted in the server's local zone.
var timestampLayouts = []struct {
	layout string
	naive  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02 15:04:05.999999999Z07:00", false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02 15:04:05.999999999", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02", true},
}

// SummarizeSession derives the dashboard summary of one session from its ordered events.
// Time on a page runs from the event that entered it to the next page boundary; the page
// that is still open accrues time until now.
func SummarizeSession(sessionID string, events []models.Event, now time.Time) dto.SessionSummary {
	summary := dto.SessionSummary{
		ID:         sessionID,
		OS:         unknownValue,
		Model:      unknownValue,
		IP:         unknownValue,
		PageVisits: make(map[string]float64),
	}
	if len(events) == 0 {
		return summary
	}

	first := events[0]
	if first.DeviceInfo.OS != "" {
		summary.OS = first.DeviceInfo.OS
	}
	if first.DeviceInfo.Model != "" {
		summary.Model = first.DeviceInfo.Model
	}
	summary.IP = firstEventIP(first)
	if start, ok := timestampMillis(first.RawTimestamp()); ok {
		summary.StartTime = &start
	}

	var (
		currentPage string
		pageOpen    bool
		pageStart   float64
		startKnown  bool
		lastKnown   float64
		lastOK      bool
	)

	for _, event := range events {
		ts, ok := timestampMillis(event.RawTimestamp())
		if ok {
			lastKnown, lastOK = ts, true
		} else if lastOK {
			ts, ok = lastKnown, true
		}

		nextPage, nextOpen, boundary := pageBoundary(event)
		if !boundary {
			continue
		}

		if pageOpen && startKnown && ok {
			if elapsed := (ts - pageStart) / msPerMinute; elapsed > 0 {
				summary.PageVisits[currentPage] += elapsed
			}
		}

		currentPage, pageOpen = nextPage, nextOpen
		pageStart, startKnown = ts, ok
	}

	if pageOpen && startKnown {
		nowMs := float64(now.UnixNano()) / float64(time.Millisecond)
		if elapsed := (nowMs - pageStart) / msPerMinute; elapsed > 0 {
			summary.PageVisits[currentPage] += elapsed
		} else if _, exists := summary.PageVisits[currentPage]; !exists {
			summary.PageVisits[currentPage] = 0
		}
	}

	return summary
}

// SummarizeQuizProgress counts the distinct questions a session answered and how many of its
// answers were correct. total is the number of questions currently in the store.
func SummarizeQuizProgress(sessionID string, events []models.Event, total int) dto.QuizProgress {
	answered := make(map[string]struct{})
	correct := 0

	for _, event := range events {
		if event.EventName != models.EventQuizAnswer {
			continue
		}
		if questionID, ok := event.Data("questionId"); ok && questionID != nil {
			answered[fmt.Sprintf("%T:%v", questionID, questionID)] = struct{}{}
		}
		if isCorrect, ok := event.Data("isCorrect"); ok {
			if flag, isBool := isCorrect.(bool); isBool && flag {
				correct++
			}
		}
	}

	progress := dto.QuizProgress{
		ID:       sessionID,
		Answered: len(answered),
		Correct:  correct,
		Total:    total,
	}
	if total > 0 {
		progress.ProgressPercentage = int(math.RoundToEven(float64(progress.Answered) / float64(total) * 100))
	}
	return progress
}

// pageBoundary reports whether event moves the session to another page and which one.
// nextOpen is false when the event names no page at all.
func pageBoundary(event models.Event) (nextPage string, nextOpen bool, boundary bool) {
	switch event.EventName {
	case models.EventPageView:
		url := event.DataString("url")
		switch {
		case strings.HasPrefix(url, quizPagePrefix):
			return quizPageFromURL(url), true, true
		case url == "/":
			return "home", true, true
		}
		value, ok := event.Data("page")
		if !ok {
			return "unknown", true, true
		}
		page, open := PageKey(value)
		return page, open, true
	case models.EventQuizPageNavigation:
		value, _ := event.Data("toPage")
		page, open := PageKey(value)
		return page, open, true
	default:
		return "", false, false
	}
}

func quizPageFromURL(url string) string {
	segment := url[strings.LastIndex(url, "/")+1:]
	number, err := strconv.Atoi(segment)
	if err != nil {
		return "0"
	}
	return strconv.Itoa(number)
}

// PageKey renders a client supplied page value as a map key. Whole numbers lose their
// fractional part so that 1 and 1.0 name the same page.
func PageKey(value interface{}) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return strconv.FormatFloat(v, 'f', 0, 64), true
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		if v {
			return "True", true
		}
		return "False", true
	default:
		return fmt.Sprint(v), true
	}
}

func firstEventIP(event models.Event) string {
	switch {
	case event.IP != "":
		return event.IP
	case event.DeviceInfo.IP != "":
		return event.DeviceInfo.IP
	}
	if ip := event.DataString("ip"); ip != "" {
		return ip
	}
	return unknownValue
}

// timestampMillis converts epoch milliseconds, numeric strings and ISO-8601 strings to epoch
// milliseconds.
func timestampMillis(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		return parseTimestampString(strings.TrimSpace(v))
	default:
		return 0, false
	}
}

func parseTimestampString(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f, true
	}
	for _, candidate := range timestampLayouts {
		var (
			parsed time.Time
			err    error
		)
		if candidate.naive {
			parsed, err = time.ParseInLocation(candidate.layout, value, time.Local)
		} else {
			parsed, err = time.Parse(candidate.layout, value)
		}
		if err == nil {
			return float64(parsed.UnixNano()) / float64(time.Millisecond), true
		}
	}
	return 0, false
}

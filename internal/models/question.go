package models

import "strings"

// Option is a single selectable answer of a question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a multiple-choice question assigned to a quiz page.
type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []Option `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Page          int      `json:"page"`
	CreatedAt     string   `json:"created_at,omitempty"`
	UpdatedAt     string   `json:"updated_at,omitempty"`
}

// HasOption reports whether id matches one of the question options.
func (q Question) HasOption(id string) bool {
	for _, option := range q.Options {
		if option.ID == id {
			return true
		}
	}
	return false
}

// TrimWhitespace strips leading and trailing whitespace from the question text fields and
// reports whether anything changed.
func (q *Question) TrimWhitespace() bool {
	changed := trimInPlace(&q.Question)
	changed = trimInPlace(&q.Explanation) || changed
	changed = trimInPlace(&q.CorrectAnswer) || changed
	for i := range q.Options {
		changed = trimInPlace(&q.Options[i].ID) || changed
		changed = trimInPlace(&q.Options[i].Text) || changed
	}
	return changed
}

func trimInPlace(value *string) bool {
	trimmed := strings.TrimSpace(*value)
	if trimmed == *value {
		return false
	}
	*value = trimmed
	return true
}

// PageRange summarises which question pages exist.
type PageRange struct {
	TotalPages int `json:"total_pages"`
	StartPage  int `json:"start_page"`
	EndPage    int `json:"end_page"`
}

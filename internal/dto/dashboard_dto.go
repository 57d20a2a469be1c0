package dto

// SessionSummary is the admin dashboard view of one tracked session. StartTime is in epoch
// milliseconds, PageVisits in minutes.
type SessionSummary struct {
	ID         string             `json:"id"`
	OS         string             `json:"os"`
	Model      string             `json:"model"`
	IP         string             `json:"ip"`
	StartTime  *float64           `json:"start_time"`
	PageVisits map[string]float64 `json:"page_visits"`
}

// QuizProgress summarises how far a session got through the quiz.
type QuizProgress struct {
	ID                 string `json:"id"`
	Answered           int    `json:"answered"`
	Correct            int    `json:"correct"`
	Total              int    `json:"total"`
	ProgressPercentage int    `json:"progress_percentage"`
}

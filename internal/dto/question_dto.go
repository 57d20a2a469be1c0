package dto

import "github.com/noah-isme/gema-quiz-api/internal/models"

// QuestionOptionRequest is one answer option of a question draft.
type QuestionOptionRequest struct {
	ID   string `json:"id" validate:"required,max=64"`
	Text string `json:"text" validate:"max=10000"`
}

// QuestionRequest is the admin draft used to create or replace a question. ID and Page are
// optional; a supplied ID overrides the path id on update.
type QuestionRequest struct {
	ID            *int                    `json:"id" validate:"omitempty,min=1"`
	Question      string                  `json:"question" validate:"required,max=20000"`
	Options       []QuestionOptionRequest `json:"options" validate:"required,min=1,dive"`
	CorrectAnswer string                  `json:"correct_answer" validate:"required,max=64"`
	Explanation   string                  `json:"explanation" validate:"max=20000"`
	Page          *int                    `json:"page" validate:"omitempty,min=0"`
}

// ReorderItem assigns a page to an existing question.
type ReorderItem struct {
	ID   *int `json:"id"`
	Page *int `json:"page" validate:"omitempty,min=0"`
}

// ReorderRequest lists every question that should survive, in the desired order.
type ReorderRequest struct {
	Questions []ReorderItem `json:"questions" validate:"dive"`
}

// QuestionCreatedResponse is returned after a question was added.
type QuestionCreatedResponse struct {
	Success  bool            `json:"success"`
	Question models.Question `json:"question"`
}

// CleanupResponse reports whether the whitespace cleanup rewrote anything.
type CleanupResponse struct {
	Success bool `json:"success"`
	Cleaned bool `json:"cleaned"`
}

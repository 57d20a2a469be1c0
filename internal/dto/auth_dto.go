package dto

import "time"

// LoginRequest carries admin credentials from a JSON body or a form post.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=128"`
	Password string `json:"password" form:"password" validate:"required,max=256"`
}

// LoginResponse is returned after a successful admin login.
type LoginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// QuizStateRequest is the quiz position a logged-in user wants restored later.
type QuizStateRequest struct {
	Page           interface{} `json:"page"`
	ScrollPosition interface{} `json:"scroll_position"`
}

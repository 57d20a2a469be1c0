package dto

// PresenceRequest marks a session as (in)active on a page. Page may be a number or a string.
type PresenceRequest struct {
	SessionID string      `json:"sessionId" validate:"required,max=128"`
	Page      interface{} `json:"page"`
	IsActive  *bool       `json:"isActive"`
}

// PresenceCountResponse reports how many sessions are on a page.
type PresenceCountResponse struct {
	Page        int `json:"page"`
	ActiveUsers int `json:"active_users"`
}

package repository

import "errors"

var (
	// ErrPageNotFound indicates a question page does not exist or could not be read.
	ErrPageNotFound = errors.New("question page not found")
	// ErrSessionNotFound indicates no event log exists for the session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionCorrupt indicates the event log of a session could not be decoded.
	ErrSessionCorrupt = errors.New("session log corrupt")
	// ErrInvalidSessionID indicates the session id cannot be used as a storage key.
	ErrInvalidSessionID = errors.New("invalid session id")
)

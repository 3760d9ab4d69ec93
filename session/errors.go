package session

import "errors"

var (
	// ErrCommandConflict is returned for a seek issued while another is outstanding.
	ErrCommandConflict = errors.New("seek already in flight")

	// ErrSuperseded is returned when a newer Begin invalidated the ticket.
	ErrSuperseded = errors.New("session superseded")

	ErrNoSession = errors.New("no active session")
)

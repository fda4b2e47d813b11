package services

import "errors"

// Error taxonomy shared by all session services. Handlers map these onto HTTP
// statuses; services wrap them with fmt.Errorf("...: %w", Err...) so callers
// can test with errors.Is while keeping a human-readable message.
var (
	// ErrUnauthorized means the caller is not a participant on the
	// appointment, or has the wrong role for the action.
	ErrUnauthorized = errors.New("not authorized for this appointment")

	// ErrNotFound means the appointment, recording or message is absent.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidState means the action was attempted outside its legal
	// window: appointment not confirmed, availability window closed,
	// session already ended.
	ErrInvalidState = errors.New("action not allowed in current session state")

	// ErrValidation means malformed input, e.g. an unknown signal type.
	ErrValidation = errors.New("invalid input")
)

package services

import (
	"time"

	"telemed-app-server/internal/models"
)

// SessionPhase is the derived lifecycle phase of an appointment's session.
type SessionPhase string

const (
	PhaseNotStarted SessionPhase = "not_started"
	PhaseActive     SessionPhase = "active"
	PhaseEnded      SessionPhase = "ended"
)

// SessionState is the tagged view of the nullable meeting fields stored on an
// appointment. Deriving it in one place keeps invalid combinations (ended but
// never started, deadline while auto-end disabled) out of the rest of the code.
type SessionState struct {
	Phase     SessionPhase `json:"phase"`
	StartedAt *time.Time   `json:"startedAt,omitempty"`
	Deadline  *time.Time   `json:"deadline,omitempty"` // nil while active means no auto-end
	EndedAt   *time.Time   `json:"endedAt,omitempty"`
}

// DeriveSessionState computes the session phase for an appointment at a given
// instant. A session past its deadline with auto-end still enabled is reported
// as ended even before the expiry has been written back, so clients observing
// the state and the lazy finalizer agree.
func DeriveSessionState(a *models.Appointment, now time.Time) SessionState {
	if a.MeetingStartedAt == nil {
		return SessionState{Phase: PhaseNotStarted}
	}
	if a.MeetingEndedAt != nil {
		return SessionState{Phase: PhaseEnded, StartedAt: a.MeetingStartedAt, EndedAt: a.MeetingEndedAt}
	}
	if !a.MeetingAutoEndDisabled && a.MeetingEndsAt != nil && !now.Before(*a.MeetingEndsAt) {
		// Logically expired; the stored fields catch up on the next write.
		return SessionState{Phase: PhaseEnded, StartedAt: a.MeetingStartedAt, EndedAt: a.MeetingEndsAt}
	}
	state := SessionState{Phase: PhaseActive, StartedAt: a.MeetingStartedAt}
	if !a.MeetingAutoEndDisabled {
		state.Deadline = a.MeetingEndsAt
	}
	return state
}

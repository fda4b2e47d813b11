package services

import (
	"time"

	"telemed-app-server/internal/config"
)

// SessionClock computes availability windows and auto-end deadlines for
// consultation sessions. Pure computation, no stored state.
type SessionClock struct {
	ConsultationLength time.Duration
	InterSessionBreak  time.Duration
}

// NewSessionClock creates a SessionClock from configuration.
func NewSessionClock(cfg *config.Config) SessionClock {
	return SessionClock{
		ConsultationLength: cfg.ConsultationLength,
		InterSessionBreak:  cfg.InterSessionBreak,
	}
}

// Window is a half-open interval [Start, End) during which a session may start.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AvailabilityWindow returns the interval during which a session for an
// appointment scheduled at appointmentDate may be started. If a prior
// recording for the same appointment ended at lastRecordingEnd, the window is
// pushed forward to lastRecordingEnd plus the mandatory inter-session break
// when that is later than the scheduled start, so one appointment can host
// back-to-back sub-sessions without overlap.
func (c SessionClock) AvailabilityWindow(appointmentDate time.Time, lastRecordingEnd *time.Time) Window {
	start := appointmentDate
	if lastRecordingEnd != nil {
		shifted := lastRecordingEnd.Add(c.InterSessionBreak)
		if shifted.After(start) {
			start = shifted
		}
	}
	return Window{Start: start, End: start.Add(c.ConsultationLength)}
}

// CanStartNow reports whether now falls within the window. Starting early is
// never allowed; starting late is allowed until the window closes, with no
// grace period beyond it.
func (c SessionClock) CanStartNow(now time.Time, w Window) bool {
	return !now.Before(w.Start) && now.Before(w.End)
}

// AutoEndDeadline returns the instant a session started at startedAt is
// considered over unless explicitly extended.
func (c SessionClock) AutoEndDeadline(startedAt time.Time) time.Time {
	return startedAt.Add(c.ConsultationLength)
}

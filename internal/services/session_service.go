package services

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"telemed-app-server/internal/models"
)

// SessionStatus is the verbatim view of an appointment's session fields plus
// the derived phase, returned to both participants each poll cycle.
type SessionStatus struct {
	AppointmentID   string       `json:"appointmentId"`
	MeetingLink     string       `json:"meetingLink,omitempty"`
	StartedAt       *time.Time   `json:"startedAt,omitempty"`
	EndsAt          *time.Time   `json:"endsAt,omitempty"`
	AutoEndDisabled bool         `json:"autoEndDisabled"`
	EndedAt         *time.Time   `json:"endedAt,omitempty"`
	Phase           SessionPhase `json:"phase"`
}

// AvailableSession is a confirmed appointment whose availability window is
// still open or upcoming, as listed for a doctor.
type AvailableSession struct {
	Appointment models.Appointment `json:"appointment"`
	Window      Window             `json:"window"`
}

// InterfaceSessionService defines the session lifecycle surface.
type InterfaceSessionService interface {
	StartSession(appointmentID, doctorID, meetingLink string) (*SessionStatus, *models.VideoRecording, error)
	ExtendSession(appointmentID, doctorID string) (*SessionStatus, error)
	EndSession(appointmentID, callerID string) (*SessionStatus, error)
	GetSessionStatus(appointmentID, callerID string) (*SessionStatus, error)
	GetAvailableSessions(doctorID string) ([]AvailableSession, error)
}

// SessionService owns the appointment's meeting fields and the legal
// transitions between them.
type SessionService struct {
	DB    *gorm.DB
	Clock SessionClock
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *gorm.DB, clock SessionClock) InterfaceSessionService {
	return &SessionService{DB: db, Clock: clock}
}

func (s *SessionService) loadAppointment(appointmentID string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := s.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
		}
		return nil, err
	}
	return &appointment, nil
}

// StartSession begins the live consultation for a confirmed appointment.
// Doctor only. The appointment is considered consumed the moment a session is
// entered, so its status advances to completed here, independent of how long
// the call runs. The canonical recording is located or created and stamped
// with the live link and a fresh recording date.
func (s *SessionService) StartSession(appointmentID, doctorID, meetingLink string) (*SessionStatus, *models.VideoRecording, error) {
	appointment, err := s.loadAppointment(appointmentID)
	if err != nil {
		return nil, nil, err
	}
	if appointment.DoctorID != doctorID {
		return nil, nil, fmt.Errorf("only the appointment's doctor can start a session: %w", ErrUnauthorized)
	}
	// A confirmed appointment can enter its first session; one completed by a
	// prior session may re-enter for a back-to-back sub-session.
	resumable := appointment.Status == models.StatusCompleted && appointment.MeetingStartedAt != nil
	if appointment.Status != models.StatusConfirmed && !resumable {
		return nil, nil, fmt.Errorf("appointment is %s, not confirmed: %w", appointment.Status, ErrInvalidState)
	}

	prior, err := canonicalRecording(s.DB, appointment.ID, appointment.PatientID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	window := s.Clock.AvailabilityWindow(appointment.AppointmentDate, lastRecordingEnd(prior))
	if !s.Clock.CanStartNow(now, window) {
		return nil, nil, fmt.Errorf("availability window %s - %s is closed: %w",
			window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339), ErrInvalidState)
	}

	deadline := s.Clock.AutoEndDeadline(now)
	appointment.MeetingLink = meetingLink
	appointment.MeetingStartedAt = &now
	appointment.MeetingEndsAt = &deadline
	appointment.MeetingAutoEndDisabled = false
	appointment.MeetingEndedAt = nil
	appointment.Status = models.StatusCompleted

	var recording *models.VideoRecording
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(appointment).Error; err != nil {
			return err
		}
		rec := prior
		if rec == nil {
			rec = &models.VideoRecording{
				AppointmentID: appointment.ID,
				DoctorID:      appointment.DoctorID,
				PatientID:     appointment.PatientID,
			}
		}
		rec.VideoURL = meetingLink
		rec.RecordingDate = now
		rec.Duration = nil // fresh sub-session, finalized again at end
		if err := tx.Save(rec).Error; err != nil {
			return err
		}
		recording = rec
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.WithFields(log.Fields{
		"appointmentId": appointment.ID,
		"doctorId":      doctorID,
		"endsAt":        deadline,
	}).Info("session started")

	status := s.statusOf(appointment, now)
	return &status, recording, nil
}

// ExtendSession removes the auto-end deadline for an active session. Doctor
// only. Idempotent: extending twice leaves the same state as extending once.
func (s *SessionService) ExtendSession(appointmentID, doctorID string) (*SessionStatus, error) {
	appointment, err := s.loadAppointment(appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != doctorID {
		return nil, fmt.Errorf("only the appointment's doctor can extend a session: %w", ErrUnauthorized)
	}

	appointment.MeetingAutoEndDisabled = true
	appointment.MeetingEndsAt = nil
	if err := s.DB.Save(appointment).Error; err != nil {
		return nil, err
	}

	log.WithField("appointmentId", appointment.ID).Info("session extended, auto-end disabled")

	status := s.statusOf(appointment, time.Now())
	return &status, nil
}

// EndSession terminates an active session and writes the elapsed duration to
// the canonical recording. Either participant may end the call.
func (s *SessionService) EndSession(appointmentID, callerID string) (*SessionStatus, error) {
	appointment, err := s.loadAppointment(appointmentID)
	if err != nil {
		return nil, err
	}
	if !appointment.IsParticipant(callerID) {
		return nil, fmt.Errorf("only a participant can end the session: %w", ErrUnauthorized)
	}
	if appointment.MeetingStartedAt == nil {
		return nil, fmt.Errorf("session was never started: %w", ErrInvalidState)
	}
	if appointment.MeetingEndedAt != nil {
		return nil, fmt.Errorf("session already ended: %w", ErrInvalidState)
	}

	now := time.Now()
	endedAt := now
	// A lazily-detected expiry ends at the stored deadline, not at observation time.
	if !appointment.MeetingAutoEndDisabled && appointment.MeetingEndsAt != nil && now.After(*appointment.MeetingEndsAt) {
		endedAt = *appointment.MeetingEndsAt
	}

	if err := s.finalizeSession(appointment, endedAt); err != nil {
		return nil, err
	}

	status := s.statusOf(appointment, now)
	return &status, nil
}

// GetSessionStatus returns the session fields verbatim for either participant.
// Expiry is detected lazily here: a session past its deadline with auto-end
// still enabled is finalized on read, since no background sweep runs.
func (s *SessionService) GetSessionStatus(appointmentID, callerID string) (*SessionStatus, error) {
	appointment, err := s.loadAppointment(appointmentID)
	if err != nil {
		return nil, err
	}
	if !appointment.IsParticipant(callerID) {
		return nil, fmt.Errorf("only a participant can view the session: %w", ErrUnauthorized)
	}

	now := time.Now()
	if appointment.MeetingStartedAt != nil && appointment.MeetingEndedAt == nil &&
		!appointment.MeetingAutoEndDisabled && appointment.MeetingEndsAt != nil &&
		!now.Before(*appointment.MeetingEndsAt) {
		if err := s.finalizeSession(appointment, *appointment.MeetingEndsAt); err != nil {
			return nil, err
		}
	}

	status := s.statusOf(appointment, now)
	return &status, nil
}

// finalizeSession stamps the end time and reconciles the duration onto the
// canonical recording in one transaction.
func (s *SessionService) finalizeSession(appointment *models.Appointment, endedAt time.Time) error {
	durationSeconds := int(endedAt.Sub(*appointment.MeetingStartedAt).Seconds())
	appointment.MeetingEndedAt = &endedAt

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(appointment).Error; err != nil {
			return err
		}
		rec, err := canonicalRecording(tx, appointment.ID, appointment.PatientID)
		if err != nil {
			return err
		}
		if rec == nil {
			// No consent and no start-created row; nothing to reconcile.
			return nil
		}
		rec.Duration = &durationSeconds
		return tx.Save(rec).Error
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"appointmentId": appointment.ID,
		"endedAt":       endedAt,
		"duration":      durationSeconds,
	}).Info("session ended")
	return nil
}

// GetAvailableSessions lists this doctor's confirmed appointments scheduled
// today whose availability window is open or still upcoming.
func (s *SessionService) GetAvailableSessions(doctorID string) ([]AvailableSession, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var appointments []models.Appointment
	err := s.DB.Where("doctor_id = ? AND status = ? AND appointment_date >= ? AND appointment_date < ?",
		doctorID, models.StatusConfirmed, dayStart, dayEnd).
		Order("appointment_date asc").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]AvailableSession, 0, len(appointments))
	for i := range appointments {
		appointment := appointments[i]
		prior, err := canonicalRecording(s.DB, appointment.ID, appointment.PatientID)
		if err != nil {
			return nil, err
		}
		window := s.Clock.AvailabilityWindow(appointment.AppointmentDate, lastRecordingEnd(prior))
		if window.End.After(now) {
			sessions = append(sessions, AvailableSession{Appointment: appointment, Window: window})
		}
	}
	return sessions, nil
}

func (s *SessionService) statusOf(appointment *models.Appointment, now time.Time) SessionStatus {
	return SessionStatus{
		AppointmentID:   appointment.ID,
		MeetingLink:     appointment.MeetingLink,
		StartedAt:       appointment.MeetingStartedAt,
		EndsAt:          appointment.MeetingEndsAt,
		AutoEndDisabled: appointment.MeetingAutoEndDisabled,
		EndedAt:         appointment.MeetingEndedAt,
		Phase:           DeriveSessionState(appointment, now).Phase,
	}
}

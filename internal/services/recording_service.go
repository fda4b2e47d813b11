package services

import (
	"errors"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"telemed-app-server/internal/models"
)

// canonicalRecording selects the authoritative VideoRecording for an
// appointment/patient pair: the most recently created one by recording date.
// Every writer (consent, session start, session end, file upload) goes through
// this rule so independent updates converge on a single row. Returns nil when
// no recording exists yet.
func canonicalRecording(db *gorm.DB, appointmentID, patientID string) (*models.VideoRecording, error) {
	var rec models.VideoRecording
	err := db.Where("appointment_id = ? AND patient_id = ?", appointmentID, patientID).
		Order("recording_date desc").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// lastRecordingEnd computes when the previous sub-session on this appointment
// finished, from the canonical recording's start marker plus its duration.
// Recordings without a duration (consent-only rows, sessions still running)
// do not shift the availability window.
func lastRecordingEnd(rec *models.VideoRecording) *time.Time {
	if rec == nil || rec.Duration == nil {
		return nil
	}
	end := rec.RecordingDate.Add(time.Duration(*rec.Duration) * time.Second)
	return &end
}

// InterfaceRecordingService defines the recording reconciler surface.
type InterfaceRecordingService interface {
	UploadRecordingFile(appointmentID string, caller Identity, fileName string, file io.Reader, durationSeconds int) (*models.VideoRecording, error)
	GetRecording(appointmentID string, caller Identity) (*models.VideoRecording, error)
}

// RecordingService reconciles uploaded recording files with the canonical
// VideoRecording row of an appointment.
type RecordingService struct {
	DB    *gorm.DB
	Store FileStore
}

// NewRecordingService creates a new RecordingService.
func NewRecordingService(db *gorm.DB, store FileStore) InterfaceRecordingService {
	return &RecordingService{DB: db, Store: store}
}

// UploadRecordingFile stores an out-of-band recording upload and attaches its
// location to the canonical recording. An upload cannot precede both consent
// and session start, so a missing recording row is NotFound rather than
// create-on-demand. When the recording has no duration yet and the upload
// carries one, it is taken as the finalized duration.
func (s *RecordingService) UploadRecordingFile(appointmentID string, caller Identity, fileName string, file io.Reader, durationSeconds int) (*models.VideoRecording, error) {
	var appointment models.Appointment
	if err := s.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
		}
		return nil, err
	}

	isAdmin := caller.Role == models.RoleAdmin
	if !isAdmin && caller.ID != appointment.DoctorID {
		return nil, fmt.Errorf("only the appointment's doctor or an admin can upload recordings: %w", ErrUnauthorized)
	}

	rec, err := canonicalRecording(s.DB, appointmentID, appointment.PatientID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("no recording exists for appointment %s: %w", appointmentID, ErrNotFound)
	}

	fileURL, err := s.Store.Save(fileName, file)
	if err != nil {
		return nil, fmt.Errorf("storing recording file: %w", err)
	}

	rec.RecordingFileURL = &fileURL
	if rec.Duration == nil && durationSeconds > 0 {
		rec.Duration = &durationSeconds
	}
	if err := s.DB.Save(rec).Error; err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"appointmentId": appointmentID,
		"recordingId":   rec.ID,
		"fileUrl":       fileURL,
	}).Info("recording file attached")

	return rec, nil
}

// GetRecording returns the canonical recording for an appointment, readable by
// either participant or an admin.
func (s *RecordingService) GetRecording(appointmentID string, caller Identity) (*models.VideoRecording, error) {
	var appointment models.Appointment
	if err := s.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
		}
		return nil, err
	}

	if caller.Role != models.RoleAdmin && !appointment.IsParticipant(caller.ID) {
		return nil, fmt.Errorf("recording access: %w", ErrUnauthorized)
	}

	rec, err := canonicalRecording(s.DB, appointmentID, appointment.PatientID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("no recording for appointment %s: %w", appointmentID, ErrNotFound)
	}
	return rec, nil
}

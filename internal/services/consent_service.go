package services

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"telemed-app-server/internal/models"
)

// ConsentStatus is a patient's current recording-consent decision.
type ConsentStatus struct {
	Decided      bool   `json:"decided"`
	ConsentGiven bool   `json:"consentGiven"`
	RecordingID  string `json:"recordingId,omitempty"`
}

// InterfaceConsentService defines the consent ledger surface.
type InterfaceConsentService interface {
	Give(appointmentID, patientID string, consentGiven bool, consentIP string) (*models.VideoRecording, error)
	Status(appointmentID, patientID string) (*ConsentStatus, error)
}

// ConsentService records a patient's yes/no decision to be recorded,
// independent of whether the session has started. Consent must be capturable
// before any recording begins, so a consent-only VideoRecording row is created
// when none exists yet and session start later fills it in.
type ConsentService struct {
	DB *gorm.DB
}

// NewConsentService creates a new ConsentService.
func NewConsentService(db *gorm.DB) InterfaceConsentService {
	return &ConsentService{DB: db}
}

// Give records the patient's decision on the canonical recording, creating a
// consent-only row (empty video URL) when the session has not started yet.
// ConsentDate is only set while consent stands; withdrawing clears it.
func (s *ConsentService) Give(appointmentID, patientID string, consentGiven bool, consentIP string) (*models.VideoRecording, error) {
	var appointment models.Appointment
	if err := s.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
		}
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, fmt.Errorf("only the appointment's patient can give consent: %w", ErrUnauthorized)
	}

	now := time.Now()
	rec, err := canonicalRecording(s.DB, appointmentID, patientID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &models.VideoRecording{
			AppointmentID: appointment.ID,
			DoctorID:      appointment.DoctorID,
			PatientID:     appointment.PatientID,
			VideoURL:      "", // session not started yet
			RecordingDate: now,
		}
	}

	rec.ConsentGiven = consentGiven
	rec.ConsentIP = consentIP
	if consentGiven {
		rec.ConsentDate = &now
	} else {
		rec.ConsentDate = nil
	}

	if err := s.DB.Save(rec).Error; err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"appointmentId": appointmentID,
		"recordingId":   rec.ID,
		"consentGiven":  consentGiven,
	}).Info("recording consent recorded")

	return rec, nil
}

// Status returns the patient's current decision, or a zero result when no
// decision has been recorded yet. Read-only.
func (s *ConsentService) Status(appointmentID, patientID string) (*ConsentStatus, error) {
	var appointment models.Appointment
	if err := s.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
		}
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, fmt.Errorf("only the appointment's patient can view consent: %w", ErrUnauthorized)
	}

	rec, err := canonicalRecording(s.DB, appointmentID, patientID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return &ConsentStatus{Decided: false}, nil
	}
	return &ConsentStatus{
		Decided:      true,
		ConsentGiven: rec.ConsentGiven,
		RecordingID:  rec.ID,
	}, nil
}

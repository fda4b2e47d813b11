package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"telemed-app-server/internal/models"
)

// InterfaceSignalService defines the signaling relay surface.
type InterfaceSignalService interface {
	Send(appointmentID, senderID string, signalType models.SignalType, payload json.RawMessage) (*models.SignalMessage, error)
	Poll(appointmentID, requesterID string, after time.Time) ([]models.SignalMessage, error)
}

// SignalService is the append-only per-appointment message channel the two
// participants use to negotiate their peer connection and exchange in-call
// messages. Payloads are opaque to the relay: it stores and filters, never
// interprets. Delivery is at-least-once; ordering comes from the created_at
// cursor alone. No persistent connection is assumed - frontends poll on a
// fixed interval.
type SignalService struct {
	DB *gorm.DB
}

// NewSignalService creates a new SignalService.
func NewSignalService(db *gorm.DB) InterfaceSignalService {
	return &SignalService{DB: db}
}

func (s *SignalService) participantGuard(appointmentID, userID string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := s.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
		}
		return nil, err
	}
	if !appointment.IsParticipant(userID) {
		return nil, fmt.Errorf("sender is not a participant on this appointment: %w", ErrUnauthorized)
	}
	return &appointment, nil
}

// Send appends a message to the appointment's channel and returns it with its
// server-assigned creation timestamp.
func (s *SignalService) Send(appointmentID, senderID string, signalType models.SignalType, payload json.RawMessage) (*models.SignalMessage, error) {
	if _, err := s.participantGuard(appointmentID, senderID); err != nil {
		return nil, err
	}
	if !models.ValidSignalType(signalType) {
		return nil, fmt.Errorf("unknown signal type %q: %w", signalType, ErrValidation)
	}

	message := models.SignalMessage{
		AppointmentID: appointmentID,
		SenderID:      senderID,
		Type:          signalType,
		Payload:       payload,
	}
	if err := s.DB.Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// Poll returns the appointment's messages created after the cursor and not
// authored by the requester, ascending by creation time. A zero cursor means
// all time. The relay marks nothing as consumed: clients tolerate re-delivery
// across retries.
func (s *SignalService) Poll(appointmentID, requesterID string, after time.Time) ([]models.SignalMessage, error) {
	if _, err := s.participantGuard(appointmentID, requesterID); err != nil {
		return nil, err
	}

	messages := []models.SignalMessage{}
	query := s.DB.Where("appointment_id = ? AND sender_id <> ?", appointmentID, requesterID)
	if !after.IsZero() {
		query = query.Where("created_at > ?", after)
	}
	if err := query.Order("created_at asc").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
